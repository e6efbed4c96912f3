package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	Key       string
	Name      string
	Latitude  float64
	Longitude float64
	Tags      []string
}

func TestRender(t *testing.T) {
	locker := point{Key: "WAW01", Name: "Paczkomat WAW01", Latitude: 52.2297, Longitude: 21.0122, Tags: []string{"24h", "card"}}

	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "{{ .Key }}",
			data: locker,
			want: "WAW01",
		},
		{
			name: "map data",
			tmpl: "{{ .Key }}={{ .Name }}",
			data: map[string]string{"Key": "WAW02", "Name": "Kiosk"},
			want: "WAW02=Kiosk",
		},
		{
			name: "no variables",
			tmpl: "static string",
			data: nil,
			want: "static string",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Key": "x"},
			wantErr: true,
		},
		{
			name:    "unknown field errors",
			tmpl:    "{{ .Missing }}",
			data:    locker,
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .Key }",
			data:    locker,
			wantErr: true,
		},
		{
			name: "fixed decimals",
			tmpl: "{{ fixed 2 .Latitude }},{{ fixed 2 .Longitude }}",
			data: locker,
			want: "52.23,21.01",
		},
		{
			name: "join and case",
			tmpl: `{{ join .Tags "," | upper }} {{ lower .Key }}`,
			data: locker,
			want: "24H,CARD waw01",
		},
		{
			name: "shq function with spaces",
			tmpl: "echo {{ .Name | shq }}",
			data: locker,
			want: "echo 'Paczkomat WAW01'",
		},
		{
			name: "shq function with single quotes",
			tmpl: "echo {{ .Name | shq }}",
			data: point{Name: "Joe's Kiosk"},
			want: `echo 'Joe'\''s Kiosk'`,
		},
		{
			name: "shq function with empty string",
			tmpl: "echo {{ .Name | shq }}",
			data: point{},
			want: "echo ''",
		},
		{
			name: "shq function with special chars",
			tmpl: "echo {{ .Name | shq }}",
			data: point{Name: "$(whoami) && rm -rf /"},
			want: "echo '$(whoami) && rm -rf /'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_ReusesTemplate(t *testing.T) {
	tpl, err := Parse("{{ .Key }}")
	require.NoError(t, err)

	for _, key := range []string{"A", "B"} {
		got, err := tpl.Execute(point{Key: key})
		require.NoError(t, err)
		assert.Equal(t, key, got)
	}
}

func TestParse_Error(t *testing.T) {
	_, err := Parse("{{ if }}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse template")
}
