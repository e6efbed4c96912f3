package initcmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mappicker/internal/core/config"
	"github.com/colonyops/mappicker/internal/printer"
)

type fakePrompter struct {
	overwrite  bool
	confirmErr error
	answers    *Answers
	askErr     error

	confirms int
	asks     int
}

func (f *fakePrompter) Confirm(string, string) (bool, error) {
	f.confirms++
	return f.overwrite, f.confirmErr
}

func (f *fakePrompter) Ask(a *Answers) error {
	f.asks++
	if f.answers != nil {
		*a = *f.answers
	}
	return f.askErr
}

func testCtx() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	return printer.NewContext(context.Background(), printer.New(&buf)), &buf
}

func TestWizard_WritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappicker", "config.yaml")
	points := filepath.Join(dir, "points.yaml")
	require.NoError(t, os.WriteFile(points, []byte("points: []\n"), 0o644))

	prompter := &fakePrompter{answers: &Answers{
		Provider:     config.ProviderOffline,
		Email:        " me@example.com ",
		CountryCodes: "PL, de",
		PointsFile:   points,
		Position:     "50.06, 19.94",
		Theme:        "gruvbox",
	}}

	ctx, _ := testCtx()
	err := NewWizard(WizardOptions{ConfigPath: path, DataDir: dir, Answers: DefaultAnswers()}, prompter).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, prompter.asks)
	assert.Zero(t, prompter.confirms)

	cfg, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOffline, cfg.Geocoder.Provider)
	assert.Equal(t, "me@example.com", cfg.Geocoder.Email)
	assert.Equal(t, "pl,de", cfg.Geocoder.CountryCodes)
	assert.Equal(t, points, cfg.PointsFile)
	assert.InDelta(t, 50.06, cfg.Map.Latitude, 1e-9)
	assert.InDelta(t, 19.94, cfg.Map.Longitude, 1e-9)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
}

func TestWizard_YesSkipsPrompts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	prompter := &fakePrompter{}

	ctx, _ := testCtx()
	err := NewWizard(WizardOptions{ConfigPath: path, DataDir: dir, Yes: true, Answers: DefaultAnswers()}, prompter).Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, prompter.asks)

	cfg, err := config.Load(path, dir)
	require.NoError(t, err)
	want := config.DefaultConfig()
	want.DataDir = dir
	assert.Equal(t, want, *cfg)
}

func TestWizard_ExistingConfig(t *testing.T) {
	const original = "tui:\n  theme: nord\n"

	tests := []struct {
		name        string
		opts        WizardOptions
		prompter    *fakePrompter
		wantErr     string
		wantBackup  bool
		wantChanged bool
	}{
		{
			name:     "declined",
			prompter: &fakePrompter{overwrite: false},
		},
		{
			name:     "aborted",
			prompter: &fakePrompter{confirmErr: huh.ErrUserAborted},
		},
		{
			name:        "confirmed",
			prompter:    &fakePrompter{overwrite: true},
			wantBackup:  true,
			wantChanged: true,
		},
		{
			name:     "yes without force",
			opts:     WizardOptions{Yes: true},
			prompter: &fakePrompter{},
			wantErr:  "pass --force",
		},
		{
			name:        "force",
			opts:        WizardOptions{Yes: true, Force: true},
			prompter:    &fakePrompter{},
			wantBackup:  true,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

			opts := tt.opts
			opts.ConfigPath = path
			opts.DataDir = dir
			opts.Answers = DefaultAnswers()

			ctx, _ := testCtx()
			err := NewWizard(opts, tt.prompter).Run(ctx)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, string(data) != original)

			backup, err := os.ReadFile(path + ".bak")
			if tt.wantBackup {
				require.NoError(t, err)
				assert.Equal(t, original, string(backup))
			} else {
				assert.True(t, os.IsNotExist(err))
			}
		})
	}
}

func TestGenerateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		answers Answers
		wantErr string
	}{
		{name: "provider", answers: Answers{Provider: "google"}, wantErr: "unknown geocoder provider"},
		{name: "theme", answers: Answers{Theme: "sepia"}, wantErr: "unknown theme"},
		{name: "position format", answers: Answers{Position: "52.2 21.0"}, wantErr: "want"},
		{name: "position range", answers: Answers{Position: "95, 21"}, wantErr: "out of range"},
		{name: "missing points file", answers: Answers{PointsFile: filepath.Join(t.TempDir(), "gone.yaml")}, wantErr: "points file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateConfig(tt.answers)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParsePosition_RoundTrip(t *testing.T) {
	pos, err := ParsePosition(DefaultAnswers().Position)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Map.Position(), pos)

	origin, err := ParsePosition("0, 0")
	require.NoError(t, err)
	assert.Equal(t, "0, 0", FormatPosition(origin))
}
