package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/seatplan-api/internal/seating"
)

const galaScenario = `
name = "Gala"
together = [["i1", "e3"]]

[[sort]]
field = "ranking"
direction = "asc"

[[tables]]
id = "t1"
number = 1
size = 4

  [[tables.seats]]
  number = 1
  guest = "i1"

  [[tables.seats]]
  number = 2
  guest = "e1"

  [[tables.seats]]
  number = 3
  guest = "e3"

  [[tables.seats]]
  number = 4
  guest = "e2"

[[guests]]
id = "i1"
name = "Ida"
ranking = 1
internal = true

[[guests]]
id = "e1"
name = "Eli"
ranking = 5

[[guests]]
id = "e2"
name = "Eva"
ranking = 6

[[guests]]
id = "e3"
name = "Eon"
ranking = 7
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(&out, nil).RootCommand()
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	return out.String(), err
}

func TestParseScenarioBuildsRingTables(t *testing.T) {
	sc, err := ParseScenario([]byte(galaScenario))
	require.NoError(t, err)

	tables := sc.Layout()
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Seats, 4)
	first := tables[0].Seats[0]
	assert.Equal(t, "t1-s1", first.ID)
	assert.Equal(t, []string{"t1-s4", "t1-s2"}, first.Adjacent)
	assert.Equal(t, "i1", first.GuestID)
	assert.Equal(t, seating.SeatModeDefault, first.Mode)

	req := sc.Request()
	assert.Len(t, req.Internal, 1)
	assert.Len(t, req.External, 3)
	assert.Equal(t, []seating.SortRule{{Field: seating.SortFieldRanking, Direction: seating.SortAscending}}, req.SortRules)
}

func TestParseScenarioRejectsInvalidInput(t *testing.T) {
	cases := map[string]string{
		"no tables":         `name = "empty"`,
		"conflicting rules": "together = [[\"a\", \"b\"]]\naway = [[\"b\", \"a\"]]\n[[tables]]\nid = \"t1\"\nsize = 2\n",
		"short pair":        "together = [[\"a\"]]\n[[tables]]\nid = \"t1\"\nsize = 2\n",
		"bad sort field":    "[[sort]]\nfield = \"height\"\n[[tables]]\nid = \"t1\"\nsize = 2\n",
		"duplicate table":   "[[tables]]\nid = \"t1\"\n[[tables]]\nid = \"t1\"\n",
		"not toml":          "tables = [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestCheckCommandReportsViolations(t *testing.T) {
	path := writeScenario(t, galaScenario)

	out, err := runCLI(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Table 1")
	assert.Contains(t, out, "Ida [internal]  vip")
	assert.Contains(t, out, "should sit together")

	_, err = runCLI(t, "check", "--strict", path)
	assert.EqualError(t, err, "1 violation(s) found")
}

func TestSolveCommandJSON(t *testing.T) {
	path := writeScenario(t, galaScenario)

	out, err := runCLI(t, "solve", "--format", "json", path)
	require.NoError(t, err)

	var result arrangementJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Gala", result.Scenario)
	assert.Empty(t, result.Violations)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 4, result.Stats.SeatsFilled)
	assert.Equal(t, 0, result.Stats.UnplacedGuests)
	require.Len(t, result.Tables, 1)
	for _, seat := range result.Tables[0].Seats {
		assert.NotEmpty(t, seat.GuestID)
	}
}

func TestSolveCommandText(t *testing.T) {
	path := writeScenario(t, galaScenario)

	out, err := runCLI(t, "solve", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Gala")
	assert.Contains(t, out, "No violations")
	assert.Contains(t, out, "seats 4/4 filled")
}

func TestSwapsCommand(t *testing.T) {
	path := writeScenario(t, galaScenario)

	out, err := runCLI(t, "swaps", "--seat", "t1-s3", "--format", "json", path)
	require.NoError(t, err)

	var result swapsJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "e3", result.SourceGuestID)
	assert.Equal(t, 1, result.Baseline)
	require.Len(t, result.Perfect, 2)
	assert.Equal(t, "t1-s2", result.Perfect[0].SeatID)
	assert.Equal(t, "t1-s4", result.Perfect[1].SeatID)
	require.Len(t, result.Imperfect, 1)
	assert.Equal(t, "t1-s1", result.Imperfect[0].SeatID)

	_, err = runCLI(t, "swaps", "--seat", "nope", path)
	assert.ErrorIs(t, err, seating.ErrSeatNotFound)
}

func TestUnknownFormat(t *testing.T) {
	path := writeScenario(t, galaScenario)

	_, err := runCLI(t, "solve", "--format", "yaml", path)
	assert.EqualError(t, err, `unknown format "yaml" (want text or json)`)
}
