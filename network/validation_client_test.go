package network_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/network"
	"github.com/datacommons-hub/submission-services/util/testutil"
)

func TestValidateMetadata(t *testing.T) {
	var gotRequest map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/validate", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotRequest)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": false, "message": "metadata validation error"}`))
	}))
	defer server.Close()

	client := network.NewValidationClient(server.URL, testutil.GetLogger())
	result, err := client.ValidateMetadata("sub-1",
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew, "run-1")
	require.Nil(t, err)
	assert.False(t, result.Success)
	assert.True(t, result.MentionsError(constants.ValidationTypeMetadata))

	assert.Equal(t, "sub-1", gotRequest["submission_id"])
	assert.Equal(t, "run-1", gotRequest["run_id"])
	assert.Equal(t, constants.ValidationScopeNew, gotRequest["scope"])
}

func TestValidateMetadataServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := network.NewValidationClient(server.URL, testutil.GetLogger())
	result, err := client.ValidateMetadata("sub-1",
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew, "run-1")
	assert.Nil(t, result)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestValidateMetadataUnreachable(t *testing.T) {
	client := network.NewValidationClient("http://localhost:1", testutil.GetLogger())
	result, err := client.ValidateMetadata("sub-1",
		[]string{constants.ValidationTypeMetadata}, constants.ValidationScopeNew, "run-1")
	assert.Nil(t, result)
	assert.NotNil(t, err)
}
