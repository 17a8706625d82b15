package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteFetchErrorUnwraps(t *testing.T) {
	err := &RemoteFetchError{Operation: "get repository", Target: "octocat/Hello-World", Err: ErrNotFound}

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "get repository octocat/Hello-World: repository not found", err.Error())
}

func TestMalformedResponseErrorMessage(t *testing.T) {
	err := &MalformedResponseError{Resource: "issues", Problems: []string{"0.title: is required", "0.id: is required"}}
	assert.Equal(t, "malformed issues response: 0.title: is required; 0.id: is required", err.Error())

	var target *MalformedResponseError
	assert.True(t, errors.As(error(err), &target))

	bare := &MalformedResponseError{Resource: "repository"}
	assert.Equal(t, "malformed repository response", bare.Error())
}

func TestParseIssueFilter(t *testing.T) {
	tests := []struct {
		input   string
		want    IssueFilter
		wantErr bool
	}{
		{input: "all", want: FilterAll},
		{input: "open", want: FilterOpen},
		{input: "closed", want: FilterClosed},
		{input: "Closed", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIssueFilter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssueFiltersDefaultIsAll(t *testing.T) {
	assert.Equal(t, FilterAll, IssueFilters[0])
	assert.Equal(t, "Closed", FilterClosed.Label())
}
