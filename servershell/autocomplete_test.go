package servershell

import (
	"testing"

	"serveradmin/model"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b     string
		distance int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"puppet", "pupet", 1},
		{"hostname", "hostnmae", 2},
		{"über", "uber", 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.distance, Levenshtein(c.a, c.b), "%s -> %s", c.a, c.b)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("puppet_classes", "pup"))
	assert.True(t, Matches("puppet_classes", "pipp"))
	assert.True(t, Matches("puppet_classes", "pupet"))
	assert.True(t, Matches("os", "o"))
	assert.False(t, Matches("os", "x"))
	assert.False(t, Matches("environment", "game"))
	assert.False(t, Matches("os", "tags"))
}

func TestSort(t *testing.T) {
	completions := []string{"zos", "os_version", "ps", "os"}
	Sort(completions, "os")
	assert.Equal(t, []string{"os", "os_version", "ps", "zos"}, completions)
}

func TestCompleteAttributes(t *testing.T) {
	attributes := []*model.Attribute{
		{AttributeID: "os", Type: model.TypeString},
		{AttributeID: "os_version", Type: model.TypeString},
		{AttributeID: "ps", Type: model.TypeString},
		{AttributeID: "tags", Type: model.TypeString, Multi: true},
		{AttributeID: "hostname", Type: model.TypeHostname},
	}

	assert.Equal(t, []string{"hostname", "os", "os_version", "ps", "tags"},
		CompleteAttributes(attributes, AttributeOptions{}))
	assert.Equal(t, []string{"os", "os_version", "hostname", "ps"},
		CompleteAttributes(attributes, AttributeOptions{Search: "os"}))
	assert.Equal(t, []string{"os", "os_version"},
		CompleteAttributes(attributes, AttributeOptions{Search: "o"}))
	assert.Equal(t, []string{"os_version", "hostname"},
		CompleteAttributes(attributes, AttributeOptions{Search: "os", Exclude: []string{"os", "ps"}}))
	assert.Equal(t, []string{"tags"},
		CompleteAttributes(attributes, AttributeOptions{ExcludeSingle: true}))
	assert.Equal(t, []string{"hostname", "os", "os_version", "ps"},
		CompleteAttributes(attributes, AttributeOptions{ExcludeMulti: true}))
}

func TestCompleteServertypes(t *testing.T) {
	servertypes := []string{"hardware", "vm", "loadbalancer", "public_domain"}
	assert.Equal(t, []string{"vm"}, CompleteServertypes(servertypes, "v"))
	assert.Equal(t, []string{"hardware"}, CompleteServertypes(servertypes, "hrd"))
	assert.Equal(t, []string{"hardware", "loadbalancer", "public_domain", "vm"}, CompleteServertypes(servertypes, ""))
}
