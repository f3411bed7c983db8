package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"

	"serveradmin/adminapi"
	"serveradmin/dataset"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const baseURL = "http://serveradmin.test/api"

func newServer() *dataset.Object {
	return dataset.NewObject(map[string]interface{}{
		"object_id":  int64(1),
		"hostname":   "web01",
		"num_cpu":    int64(4),
		"os":         nil,
		"backup":     true,
		"monitored":  false,
		"tags":       dataset.NewMultiAttr("b", "a"),
		"primary_ip": "10.0.0.1",
	})
}

func TestParseUpdate(t *testing.T) {
	u, err := ParseUpdate("os=buster")
	require.NoError(t, err)
	assert.Equal(t, Update{AttributeID: "os", Value: "buster"}, u)

	for _, arg := range []string{"os", "os=a=b", ""} {
		_, err := ParseUpdate(arg)
		assert.EqualError(t, err, "You need to pass an attribute=value", arg)
	}
}

func TestApplyResets(t *testing.T) {
	server := newServer()
	require.NoError(t, ApplyResets(server, []string{"tags", "num_cpu"}))

	tags, _ := server.Multi("tags")
	assert.Equal(t, 0, tags.Len())
	cpus, ok := server.Get("num_cpu")
	assert.True(t, ok)
	assert.Nil(t, cpus)

	assert.EqualError(t, ApplyResets(server, []string{"backup"}), "Attribute of type boolean cannot be reset")
	assert.EqualError(t, ApplyResets(server, []string{"missing"}), "Attribute missing was not fetched")
}

func TestApplyUpdates(t *testing.T) {
	server := newServer()
	require.NoError(t, ApplyUpdates(server, []Update{{"os", "buster"}, {"tags", "c"}}))

	value, _ := server.Get("os")
	assert.Equal(t, "buster", value)
	tags, _ := server.Multi("tags")
	assert.Equal(t, []string{"c"}, tags.Strings())

	assert.Error(t, ApplyUpdates(server, []Update{{"object_id", "2"}}))
}

func TestFormatServer(t *testing.T) {
	line := FormatServer(newServer(), []string{"hostname", "num_cpu", "os", "backup", "monitored", "tags", "missing"})
	assert.Equal(t, "web01\t4\t{none}\t{true}\t{false}\ta b\t{N/A}", line)
}

func TestFormatServerJSON(t *testing.T) {
	record := FormatServerJSON(newServer(), []string{"tags", "hostname", "missing", "os"})
	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Equal(t, `{"tags":["a","b"],"hostname":"web01","missing":null,"os":null}`, string(data))
}

func TestRunSuite(t *testing.T) {
	suite.Run(t, new(RunSuite))
}

type RunSuite struct {
	suite.Suite
	client  *adminapi.Client
	commits []dataset.Commit
}

const queryResult = `{"status": "success", "result": [
	{"object_id": 1, "hostname": "web01", "os": "stretch", "tags": ["a"]},
	{"object_id": 2, "hostname": "web02", "os": null, "tags": []}
]}`

func (s *RunSuite) SetupTest() {
	httpmock.Activate()
	client, err := adminapi.NewClient(adminapi.Configuration{BaseURL: baseURL, AuthToken: "secret", Timeout: 5})
	s.Require().NoError(err)
	s.client = client
	s.commits = nil

	httpmock.RegisterResponder("POST", baseURL+"/dataset/query",
		httpmock.NewStringResponder(200, queryResult))
	httpmock.RegisterResponder("POST", baseURL+"/dataset/commit",
		func(req *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(req.Body)
			s.NoError(err)
			var commit dataset.Commit
			s.NoError(json.Unmarshal(body, &commit))
			s.commits = append(s.commits, commit)
			return httpmock.NewStringResponse(200, `{"status": "success"}`), nil
		})
}

func (s *RunSuite) TearDownTest() {
	httpmock.DeactivateAndReset()
}

func (s *RunSuite) run(opts Options) (string, error) {
	var out bytes.Buffer
	err := Run(context.Background(), &out, s.client, opts)
	return out.String(), err
}

func (s *RunSuite) TestPrint() {
	out, err := s.run(Options{Query: []string{"web*"}, Attrs: []string{"hostname", "os", "tags"}})
	s.NoError(err)
	s.Equal("web01\tstretch\ta\nweb02\t{none}\t\n", out)
	s.Empty(s.commits)
}

func (s *RunSuite) TestDefaultAttribute() {
	out, err := s.run(Options{Query: []string{"web*"}})
	s.NoError(err)
	s.Equal("web01\nweb02\n", out)
}

func (s *RunSuite) TestUpdateAndReset() {
	out, err := s.run(Options{
		Query:   []string{"web*"},
		Resets:  []string{"tags"},
		Updates: []Update{{"os", "buster"}},
	})
	s.NoError(err)
	s.Equal("web01\nweb02\n", out)

	s.Require().Len(s.commits, 1)
	changed := s.commits[0].Changed
	s.Require().Len(changed, 2)
	s.Equal(int64(1), changed[0].ObjectID)
	s.Equal(dataset.AttributeChange{Action: dataset.ActionUpdate, Old: "stretch", New: "buster"}, changed[0].Attributes["os"])
	s.Equal([]interface{}{"a"}, changed[0].Attributes["tags"].Remove)
	s.Equal(int64(2), changed[1].ObjectID)
	s.Equal([]string{"os"}, changed[1].AttributeIDs())
}

func (s *RunSuite) TestJSON() {
	out, err := s.run(Options{Query: []string{"web*"}, Attrs: []string{"hostname", "tags"}, Updates: []Update{{"tags", "x"}}, JSON: true})
	s.NoError(err)
	s.Len(s.commits, 1)

	var records []map[string]interface{}
	s.Require().NoError(json.Unmarshal([]byte(out), &records))
	s.Equal([]map[string]interface{}{
		{"hostname": "web01", "tags": []interface{}{"x"}},
		{"hostname": "web02", "tags": []interface{}{"x"}},
	}, records)
	s.Contains(out, "\n  {\n    \"hostname\": \"web01\",")
}

func (s *RunSuite) TestOne() {
	_, err := s.run(Options{Query: []string{"web*"}, One: true, Updates: []Update{{"os", "buster"}}})
	s.EqualError(err, "Expecting exactly one server, found 2 servers")
	s.Empty(s.commits)
}

func (s *RunSuite) TestOneWithoutMatch() {
	httpmock.RegisterResponder("POST", baseURL+"/dataset/query",
		httpmock.NewStringResponder(200, `{"status": "success", "result": []}`))

	out, err := s.run(Options{Query: []string{"web99"}, One: true, Updates: []Update{{"os", "buster"}}})
	s.EqualError(err, "Expecting exactly one server, found 0 servers")
	s.Empty(out)
	s.Empty(s.commits)
}

func (s *RunSuite) TestResetBoolean() {
	httpmock.RegisterResponder("POST", baseURL+"/dataset/query",
		httpmock.NewStringResponder(200, `{"status": "success", "result": [{"object_id": 1, "hostname": "web01", "backup": true}]}`))

	out, err := s.run(Options{Query: []string{"web01"}, Resets: []string{"backup"}})
	s.EqualError(err, "Attribute of type boolean cannot be reset")
	s.Empty(out)
	s.Empty(s.commits)
}

func (s *RunSuite) TestQueryError() {
	_, err := s.run(Options{Query: []string{"os=Any("}})
	s.Error(err)
	s.Equal(0, httpmock.GetTotalCallCount())
}

func (s *RunSuite) TestCommand() {
	os.Setenv("SERVERADMIN_BASE_URL", baseURL)
	os.Setenv("SERVERADMIN_TOKEN", "secret")
	defer os.Unsetenv("SERVERADMIN_BASE_URL")
	defer os.Unsetenv("SERVERADMIN_TOKEN")

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"web*", "-a", "hostname", "-a", "os", "-u", "os=buster"})
	s.NoError(cmd.Execute())
	s.Equal("web01\tbuster\nweb02\tbuster\n", out.String())
	s.Len(s.commits, 1)

	cmd = NewCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"web*", "-u", "os"})
	err := cmd.Execute()
	s.Error(err)
	s.Contains(err.Error(), "You need to pass an attribute=value")
}
