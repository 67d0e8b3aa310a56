package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsAccumulate(t *testing.T) {
	var d Diagnostics

	d.AddWarning(CodeNoCounterpart, "counterpart Leg.R not found, mirrored onto itself", "Rig", "Leg.L")
	d.AddWarning(CodeAmbiguousName, "several rules matched", "", "Left.L")
	d.AddInfo(CodeEmptyScope, "nothing to do", "", "")

	assert.Equal(t, 1, d.CountCode(CodeNoCounterpart))
	assert.Equal(t, 1, d.CountCode(CodeEmptyScope))
	assert.Equal(t, []string{
		"[Rig] Leg.L: [no_counterpart] counterpart Leg.R not found, mirrored onto itself",
		"Left.L: [ambiguous_name] several rules matched",
	}, d.WarningStrings())

	var other Diagnostics
	other.AddWarning(CodeUnknownCollection, "child collection Props not found", "", "")
	d.Merge(other)

	assert.Len(t, d.Warnings, 3)
	assert.Equal(t, "[unknown_collection] child collection Props not found", d.WarningStrings()[2])
}

func TestMirrorErrorMatchesSentinels(t *testing.T) {
	err := fmt.Errorf("apply: %w", Stale("Arm.R", errors.New("generation 3 != 4")))

	assert.ErrorIs(t, err, ErrEntityStale)
	assert.NotErrorIs(t, err, ErrInvalidAxisForSpace)

	var me *MirrorError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "Arm.R", me.Entity)
	assert.Equal(t, "entity_stale: Arm.R: generation 3 != 4", me.Error())

	axisErr := InvalidAxis("flip pose requires pose space", nil)
	assert.ErrorIs(t, axisErr, ErrInvalidAxisForSpace)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
