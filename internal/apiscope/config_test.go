package apiscope_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.followtheprocess.codes/apiscope/internal/apiscope"
	"go.followtheprocess.codes/test"
)

// writeConfig writes contents to a config file in a temporary directory, returning its path.
func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	test.Ok(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
max-rows = 25
timeout = "5s"
connection-timeout = "2s"

[presets.github]
description = "Public GitHub repos"
url = "https://api.github.com/repositories"
headers = '{"Accept": "application/vnd.github+json"}'
`)

	config, err := apiscope.LoadConfig(path)
	test.Ok(t, err)

	test.Equal(t, config.MaxRows, 25)
	test.Equal(t, config.Timeout, 5*time.Second)
	test.Equal(t, config.ConnectionTimeout, 2*time.Second)

	github, ok := config.Presets["github"]
	test.True(t, ok)
	test.Equal(t, github.Name, "github")
	test.Equal(t, github.URL, "https://api.github.com/repositories")
	test.Equal(t, github.Headers, `{"Accept": "application/vnd.github+json"}`)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name     string // Name of the test case
		contents string // Config file contents
		errMsg   string // Part of the expected error message
	}{
		{
			name:     "unknown key",
			contents: "max-row = 10\n",
			errMsg:   "unknown key(s) in config file",
		},
		{
			name:     "negative rows",
			contents: "max-rows = -1\n",
			errMsg:   "max-rows cannot be negative",
		},
		{
			name:     "bad duration",
			contents: "timeout = \"soon\"\n",
			errMsg:   "could not load config file",
		},
		{
			name:     "preset without url",
			contents: "[presets.empty]\ndescription = \"Nothing\"\n",
			errMsg:   `preset "empty" has no url`,
		},
		{
			name:     "presets differing in case",
			contents: "[presets.Local]\nurl = \"http://localhost\"\n\n[presets.local]\nurl = \"http://localhost\"\n",
			errMsg:   `presets "Local" and "local" differ only in case`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := apiscope.LoadConfig(writeConfig(t, tt.contents))
			test.Err(t, err)
			test.True(t, strings.Contains(err.Error(), tt.errMsg), test.Context("got %q", err.Error()))
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// The default location is allowed to not exist
	config, err := apiscope.LoadConfig("")
	test.Ok(t, err)
	test.Equal(t, config.MaxRows, 0)

	// But one passed explicitly is not
	_, err = apiscope.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	test.Err(t, err)
}

func TestLoadConfigDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	test.Ok(t, os.MkdirAll(filepath.Join(dir, "apiscope"), 0o755))
	test.Ok(t, os.WriteFile(filepath.Join(dir, "apiscope", "config.toml"), []byte("max-rows = 7\n"), 0o644))

	path, err := apiscope.DefaultConfigPath()
	test.Ok(t, err)
	test.Equal(t, path, filepath.Join(dir, "apiscope", "config.toml"))

	config, err := apiscope.LoadConfig("")
	test.Ok(t, err)
	test.Equal(t, config.MaxRows, 7)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name              string            // Name of the test case
		config            apiscope.Config   // Config from the file
		timeout           time.Duration     // --timeout
		connectionTimeout time.Duration     // --connection-timeout
		maxRows           int               // --max-rows
		want              apiscope.Settings // Expected settings
		wantErr           bool              // Whether we want an error
	}{
		{
			name: "defaults",
			want: apiscope.Settings{
				Timeout:           apiscope.DefaultTimeout,
				ConnectionTimeout: apiscope.DefaultConnectionTimeout,
				MaxRows:           100,
			},
		},
		{
			name:   "config",
			config: apiscope.Config{MaxRows: 10, Timeout: 20 * time.Second},
			want: apiscope.Settings{
				Timeout:           20 * time.Second,
				ConnectionTimeout: apiscope.DefaultConnectionTimeout,
				MaxRows:           10,
			},
		},
		{
			name:              "flags win",
			config:            apiscope.Config{MaxRows: 10, Timeout: 20 * time.Second},
			timeout:           5 * time.Second,
			connectionTimeout: time.Second,
			maxRows:           3,
			want: apiscope.Settings{
				Timeout:           5 * time.Second,
				ConnectionTimeout: time.Second,
				MaxRows:           3,
			},
		},
		{
			name:    "connection timeout too large",
			timeout: 2 * time.Second,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.Resolve(tt.timeout, tt.connectionTimeout, tt.maxRows)
			test.WantErr(t, err, tt.wantErr)
			test.Equal(t, got, tt.want)
		})
	}
}

func TestPresets(t *testing.T) {
	config := apiscope.Config{
		Presets: map[string]apiscope.Preset{
			"zebra":  {URL: "https://zebra.example.com"},
			"alpha":  {URL: "https://alpha.example.com"},
			"dogapi": {URL: "https://dogs.example.com"},
		},
	}

	presets := config.AllPresets()

	names := make([]string, 0, len(presets))
	for _, preset := range presets {
		names = append(names, preset.Name)
	}

	test.Equal(t, strings.Join(names, ","), "jsonplaceholder,restcountries,dogapi,alpha,zebra")

	dogs, err := config.Preset("DogAPI")
	test.Ok(t, err)
	test.Equal(t, dogs.URL, "https://dogs.example.com")

	_, err = config.Preset("missing")
	test.Err(t, err)
}

func TestPresetsOverrideIgnoresCase(t *testing.T) {
	config := apiscope.Config{
		Presets: map[string]apiscope.Preset{
			"DogAPI": {URL: "https://dogs.example.com"},
		},
	}

	presets := config.AllPresets()

	names := make([]string, 0, len(presets))
	for _, preset := range presets {
		names = append(names, preset.Name)
	}

	test.Equal(t, strings.Join(names, ","), "jsonplaceholder,restcountries,dogapi")

	dogs, err := config.Preset("dogapi")
	test.Ok(t, err)
	test.Equal(t, dogs.URL, "https://dogs.example.com")
}

func TestBuiltinPresets(t *testing.T) {
	dogs, err := apiscope.Config{}.Preset("dogapi")
	test.Ok(t, err)

	test.Equal(t, dogs.URL, "https://api.thedogapi.com/v1/breeds")
	test.Equal(t, dogs.Method, "GET")
	test.Equal(t, dogs.Headers, `{"x-api-key": "demo-key"}`)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string // Name of the test case
		err     error  // Result of Validate
		wantErr bool   // Whether we want an error
	}{
		{name: "generate ok", err: apiscope.GenerateOptions{Language: "py"}.Validate()},
		{name: "generate all", err: apiscope.GenerateOptions{Language: "ALL"}.Validate()},
		{name: "generate bad language", err: apiscope.GenerateOptions{Language: "rust"}.Validate(), wantErr: true},
		{name: "fetch ok", err: apiscope.FetchOptions{Format: "yaml", Tab: 2}.Validate()},
		{name: "fetch bad format", err: apiscope.FetchOptions{Format: "xml"}.Validate(), wantErr: true},
		{name: "fetch negative tab", err: apiscope.FetchOptions{Tab: -1}.Validate(), wantErr: true},
		{name: "fetch negative rows", err: apiscope.FetchOptions{MaxRows: -1}.Validate(), wantErr: true},
		{name: "fetch negative timeout", err: apiscope.FetchOptions{Timeout: -time.Second}.Validate(), wantErr: true},
		{name: "fetch all and tab", err: apiscope.FetchOptions{All: true, Tab: 1}.Validate(), wantErr: true},
		{name: "fetch all and pick", err: apiscope.FetchOptions{All: true, Pick: true}.Validate(), wantErr: true},
		{name: "learn ok", err: apiscope.LearnOptions{Language: "axios"}.Validate()},
		{name: "learn bad language", err: apiscope.LearnOptions{Language: "all"}.Validate(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.WantErr(t, tt.err, tt.wantErr)
		})
	}
}
