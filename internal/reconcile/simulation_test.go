package reconcile

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offramp/internal/directory/simulation"
	"offramp/internal/trackedset"
)

// TestCyclesAgainstSimulatedDirectory drives the engine end to end against
// the fixture directory, the way simulation mode runs in production.
func TestCyclesAgainstSimulatedDirectory(t *testing.T) {
	ctx := context.Background()
	dir := simulation.New("OU=Disabled")
	jsmith := dir.Seed("jsmith@corp.example")
	mjones := dir.Seed("mjones@corp.example")

	tracked := trackedset.NewInMemoryStore()
	svc, err := New(
		Deps{
			Source:     dir,
			Completion: dir,
			Action:     dir,
			Tracked:    tracked,
			Actions:    &memoryLog{},
			Errors:     &memoryLog{},
		},
		Config{Scope: "OU=Disabled", HoldDuration: 30 * 24 * time.Hour, Simulation: true},
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, err)

	// Cycle 1: both identities get a hold.
	report, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Identified)
	assert.Equal(t, 2, report.Applied)

	_, held := dir.HoldUntil(jsmith.PrincipalName)
	assert.True(t, held)
	_, held = dir.HoldUntil(mjones.PrincipalName)
	assert.True(t, held)

	// Cycle 2: both still hold licenses, so verification evicts both and
	// the holds are re-applied (idempotently).
	report, err = svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.ErrorCount)
	assert.Equal(t, 2, report.Applied)

	// Licenses reclaimed out of band: cycle 3 verifies clean and finds no
	// new work.
	dir.ReleaseLicense(jsmith.PrincipalName)
	dir.ReleaseLicense(mjones.PrincipalName)

	report, err = svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Identified)
	assert.Equal(t, 0, report.Applied)
	assert.Equal(t, 0, report.ErrorCount)
	assert.Equal(t, 2, report.PreviouslyProcessed)
}

// TestUnresolvableIdentityInSimulatedScope covers the directory quirk the
// fixture models: an account object with no principal name. It is counted
// and excluded while the rest of the scope proceeds.
func TestUnresolvableIdentityInSimulatedScope(t *testing.T) {
	ctx := context.Background()
	dir := simulation.New("OU=Disabled")
	jsmith := dir.Seed("jsmith@corp.example")
	dir.SeedUnresolvable()

	tracked := trackedset.NewInMemoryStore()
	errs := &memoryLog{}
	svc, err := New(
		Deps{
			Source:     dir,
			Completion: dir,
			Action:     dir,
			Tracked:    tracked,
			Actions:    &memoryLog{},
			Errors:     errs,
		},
		Config{Scope: "OU=Disabled", HoldDuration: time.Hour, Simulation: true},
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, err)

	report, err := svc.RunCycle(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Identified)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, 1, report.ErrorCount)
	require.Len(t, errs.entries, 1)
	assert.Contains(t, errs.entries[0].message, "no resolvable principal name")

	_, held := dir.HoldUntil(jsmith.PrincipalName)
	assert.True(t, held)
}

// TestUnavailableDirectoryAbortsWithoutMutation covers the fatal path with
// the fixture directory flipped offline.
func TestUnavailableDirectoryAbortsWithoutMutation(t *testing.T) {
	ctx := context.Background()
	dir := simulation.New("OU=Disabled")
	dir.Seed("jsmith@corp.example")
	dir.Unavailable = true

	tracked := trackedset.NewInMemoryStore()
	svc, err := New(
		Deps{
			Source:     dir,
			Completion: dir,
			Action:     dir,
			Tracked:    tracked,
			Actions:    &memoryLog{},
			Errors:     &memoryLog{},
		},
		Config{Scope: "OU=Disabled", HoldDuration: time.Hour, Simulation: true},
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, err)

	report, err := svc.RunCycle(ctx)
	require.Error(t, err)
	assert.Nil(t, report)

	set, err := tracked.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}
