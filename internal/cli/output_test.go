package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/entity"
	"github.com/five82/cirrus/internal/state"
)

func TestPrinter_Formats(t *testing.T) {
	data := []map[string]int{{"id": 1}}
	header := []string{"ID"}
	rows := [][]string{{"1"}}

	var buf bytes.Buffer
	require.NoError(t, (&printer{format: "json", out: &buf}).print(data, header, rows))
	var decoded []map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, data, decoded)

	buf.Reset()
	require.NoError(t, (&printer{format: "yaml", out: &buf}).print(data, header, rows))
	decoded = nil
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, data, decoded)

	buf.Reset()
	require.NoError(t, (&printer{format: "table", out: &buf}).print(data, header, rows))
	assert.Contains(t, buf.String(), "ID")
}

func TestPrinter_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&printer{format: "table", out: &buf}).print(nil, []string{"ID"}, nil))
	assert.Contains(t, buf.String(), "No results.")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))

	wrapped := WrapExitError(ExitFailure, "enable backups", errors.New("1 of 2 failed"))
	assert.Equal(t, "enable backups: 1 of 2 failed", wrapped.Error())
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a-long-...", truncate("a-long-label", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestListing_VolumesShowAttachedLabel(t *testing.T) {
	store := state.New()
	store.Instances.Dispatch(entity.GetAllDone[int, api.Instance]{
		Items:   []api.Instance{{ID: 7, Label: "web-1"}},
		Results: 1,
	})
	linode := 7
	store.Volumes.Dispatch(entity.GetAllDone[int, api.Volume]{
		Items:   []api.Volume{{ID: 3, Label: "data", Size: 20, LinodeID: &linode}, {ID: 1, Label: "spare", Size: 10}},
		Results: 2,
	})

	data, header, rows := listing(state.KindVolumes, store.Snapshot())
	assert.Equal(t, "ATTACHED", header[len(header)-1])
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "spare", "", "", "10 GB", "-"}, rows[0])
	assert.Equal(t, "web-1", rows[1][5])
	assert.Len(t, data, 2)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3", "12"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 12}, ids)

	_, err = parseIDs([]string{"0"})
	assert.Error(t, err)
}
