package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const cardYAML = `
data_period:
  hours_to_show: 4
wind_direction_entity:
  entity: sensor.wind_direction
windspeed_entities:
  - entity: sensor.wind_speed
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand("test", "none", "now")
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeCard(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateCommand(t *testing.T) {
	valid := writeCard(t, "valid.yaml", cardYAML)
	invalid := writeCard(t, "invalid.yaml", cardYAML+"windspeed_bar_location: left\n")

	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantErr  bool
		contains []string
	}{
		{
			name:     "valid file",
			args:     []string{"validate", valid},
			contains: []string{"OK   " + valid, "sensor.wind_direction,sensor.wind_speed"},
		},
		{
			name:     "invalid file",
			args:     []string{"validate", invalid},
			wantErr:  true,
			contains: []string{"FAIL " + invalid, "field: windspeed_bar_location (InvalidEnumValue)"},
		},
		{
			name:     "stdin",
			args:     []string{"validate", "-"},
			stdin:    `{"data_period": {"hours_to_show": 4}, "wind_direction_entity": {"entity": "sensor.wind_direction"}, "windspeed_entities": [{"entity": "sensor.wind_speed"}]}`,
			contains: []string{"OK   -"},
		},
		{
			name:     "mixed files",
			args:     []string{"validate", valid, invalid},
			wantErr:  true,
			contains: []string{"OK   " + valid, "FAIL " + invalid},
		},
		{
			name:    "missing file",
			args:    []string{"validate", filepath.Join(t.TempDir(), "missing.yaml")},
			wantErr: true,
		},
		{
			name:    "no files",
			args:    []string{"validate"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.stdin, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestValidateCommand_JSON(t *testing.T) {
	valid := writeCard(t, "valid.yaml", cardYAML)
	invalid := writeCard(t, "invalid.yaml", cardYAML+"wind_direction_count: 2\n")

	out, err := run(t, "", "validate", "--json", valid, invalid)
	if err == nil {
		t.Fatal("expected failure for invalid file")
	}

	var reports []struct {
		Source string `json:"source"`
		Valid  bool   `json:"valid"`
		Error  *struct {
			Kind  string `json:"kind"`
			Field string `json:"field"`
		} `json:"error"`
		Result *struct {
			RunID  string         `json:"run_id"`
			Config map[string]any `json:"config"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}

	if !reports[0].Valid || reports[0].Result == nil || reports[0].Result.RunID == "" {
		t.Errorf("first report = %+v", reports[0])
	}
	if got := reports[0].Result.Config["wind_direction_count"]; got != float64(16) {
		t.Errorf("wind_direction_count = %v, want 16", got)
	}
	if reports[1].Valid || reports[1].Error == nil || reports[1].Error.Field != "wind_direction_count" {
		t.Errorf("second report = %+v", reports[1])
	}
}

func TestValidateCommand_Schema(t *testing.T) {
	valid := writeCard(t, "valid.yaml", cardYAML)
	schema := writeCard(t, "titled.cue", "#WindRoseCard: {\n\ttitle: string\n\t...\n}\n")

	out, err := run(t, "", "validate", "--schema", schema, valid)
	if err == nil {
		t.Fatalf("expected schema violation, got output:\n%s", out)
	}
	if !strings.Contains(out, "FAIL") {
		t.Errorf("output missing failure:\n%s", out)
	}

	if _, err := run(t, "", "validate", "--strict", valid); err != nil {
		t.Errorf("strict validation failed: %v", err)
	}
}

func TestExampleCommand(t *testing.T) {
	out, err := run(t, "", "example")
	if err != nil {
		t.Fatalf("example failed: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("example is not YAML: %v", err)
	}
	if _, ok := doc["windspeed_entities"]; !ok {
		t.Errorf("example missing windspeed_entities:\n%s", out)
	}

	out, err = run(t, "", "example", "--json")
	if err != nil {
		t.Fatalf("example --json failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("example is not JSON: %v", err)
	}
}

func TestValidateCommand_Policies(t *testing.T) {
	valid := writeCard(t, "valid.yaml", cardYAML+"refresh_interval: 10\n")

	out, err := run(t, "", "validate", "--lint", valid)
	if err != nil {
		t.Fatalf("lint warnings must not fail validation: %v", err)
	}
	if !strings.Contains(out, "warning: refresh-interval:") {
		t.Errorf("output missing lint warning:\n%s", out)
	}

	dir := t.TempDir()
	rego := "# severity: error\npackage house.title\n\nimport rego.v1\n\n" +
		"deny contains violation if {\n\tnot input.resolved.title\n\tviolation := {\"field\": \"title\", \"message\": \"needs a title\"}\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "title.rego"), []byte(rego), 0o644); err != nil {
		t.Fatalf("failed to write policy: %v", err)
	}

	out, err = run(t, "", "validate", "--policy", dir, valid)
	if err == nil {
		t.Fatalf("expected policy rejection, got output:\n%s", out)
	}
	if !strings.Contains(out, "field: title (PolicyViolation)") {
		t.Errorf("output missing policy failure:\n%s", out)
	}
}
