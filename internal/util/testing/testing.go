package testing

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// RequestOptions describes a single HTTP request issued against a test router.
type RequestOptions struct {
	Method         string
	URL            string
	Body           interface{}
	AuthToken      string
	ExpectedStatus int
}

// Response holds the status code and raw body of a completed test request.
type Response struct {
	Code int
	Body []byte
}

// MakeRequest performs the request described by opts against the router and
// asserts the expected status code.
func MakeRequest(t *testing.T, router *gin.Engine, opts RequestOptions) Response {
	t.Helper()

	var bodyReader *bytes.Reader

	switch body := opts.Body.(type) {
	case nil:
		bodyReader = bytes.NewReader(nil)
	case string:
		bodyReader = bytes.NewReader([]byte(body))
	case []byte:
		bodyReader = bytes.NewReader(body)
	default:
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(opts.Method, opts.URL, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if opts.AuthToken != "" {
		req.Header.Set("Authorization", opts.AuthToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if opts.ExpectedStatus != 0 {
		assert.Equal(
			t,
			opts.ExpectedStatus,
			w.Code,
			"unexpected status for %s %s: %s",
			opts.Method,
			opts.URL,
			w.Body.String(),
		)
	}

	return Response{Code: w.Code, Body: w.Body.Bytes()}
}

// MakeRequestAndUnmarshal performs the request and decodes the JSON response
// body into target.
func MakeRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	opts RequestOptions,
	target interface{},
) Response {
	t.Helper()

	resp := MakeRequest(t, router, opts)
	if err := json.Unmarshal(resp.Body, target); err != nil {
		t.Fatalf("failed to unmarshal response body %q: %v", string(resp.Body), err)
	}

	return resp
}

func MakeGetRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	authToken string,
	expectedStatus int,
) Response {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:         "GET",
		URL:            url,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}

func MakeGetRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	authToken string,
	expectedStatus int,
	target interface{},
) Response {
	t.Helper()

	return MakeRequestAndUnmarshal(t, router, RequestOptions{
		Method:         "GET",
		URL:            url,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	}, target)
}

func MakePostRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	authToken string,
	body interface{},
	expectedStatus int,
) Response {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:         "POST",
		URL:            url,
		Body:           body,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}

func MakePostRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	authToken string,
	body interface{},
	expectedStatus int,
	target interface{},
) Response {
	t.Helper()

	return MakeRequestAndUnmarshal(t, router, RequestOptions{
		Method:         "POST",
		URL:            url,
		Body:           body,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	}, target)
}

func MakePutRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	authToken string,
	body interface{},
	expectedStatus int,
) Response {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:         "PUT",
		URL:            url,
		Body:           body,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}

func MakePutRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	authToken string,
	body interface{},
	expectedStatus int,
	target interface{},
) Response {
	t.Helper()

	return MakeRequestAndUnmarshal(t, router, RequestOptions{
		Method:         "PUT",
		URL:            url,
		Body:           body,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	}, target)
}

func MakeDeleteRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	authToken string,
	expectedStatus int,
) Response {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:         "DELETE",
		URL:            url,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}
