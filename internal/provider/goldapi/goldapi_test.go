package goldapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"metalprices/internal/provider/goldapi"
)

func jsonBody(t *testing.T, v any) io.ReadCloser {
	t.Helper()
	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(v))
	return io.NopCloser(buffer)
}

func TestFetch_Success_FullRecord(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock HTTP client
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method with a full GoldAPI payload
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "/api/XAU/INR", req.URL.Path)
			require.Equal(t, "test-token", req.Header.Get("x-access-token"))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body: jsonBody(t, map[string]any{
					"price":            2034.5,
					"prev_close_price": 2000.0,
					"ch":               34.5,
					"chp":              1.725,
					"bid":              2033.0,
					"ask":              2036.0,
					"high_price":       2040.0,
					"low_price":        1995.0,
					"open_price":       2001.0,
					"timestamp":        1700000000,
				}),
			}, nil
		}).
		Times(1)

	client := goldapi.New("test-token",
		goldapi.WithHTTPClient(httpClient),
		goldapi.WithBaseURL("https://example.test/api"),
	)

	// Act
	res, err := client.Fetch(t.Context(), "gold", "inr")

	// Assert
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "GoldAPI", res.Source)
	require.Equal(t, "gold", res.Data.ID)
	require.Equal(t, "Au", res.Data.Symbol)
	require.InEpsilon(t, 2034.5, res.Data.Price, 1e-9)
	require.InEpsilon(t, 34.5, res.Data.Change, 1e-9)
	require.InEpsilon(t, 1.725, res.Data.ChangePercent, 1e-9)
	require.NotNil(t, res.Data.Bid)
	require.InEpsilon(t, 2033.0, *res.Data.Bid, 1e-9)
	require.NotNil(t, res.Data.PrevClose)
	require.Equal(t, int64(1700000000), res.Data.Timestamp.Unix())
}

func TestFetch_Success_DerivesChangeWhenMissing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Payload without ch/chp: change must be derived from prev_close_price.
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body: jsonBody(t, map[string]any{
					"price":            110.0,
					"prev_close_price": 100.0,
				}),
			}, nil
		}).
		Times(1)

	client := goldapi.New("t", goldapi.WithHTTPClient(httpClient))

	res, err := client.Fetch(t.Context(), "silver", "USD")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.InEpsilon(t, 10.0, res.Data.Change, 1e-9)
	require.InEpsilon(t, 10.0, res.Data.ChangePercent, 1e-9)
}

func TestFetch_UnsupportedMetal_NoNetworkCall(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Times(0)

	client := goldapi.New("t", goldapi.WithHTTPClient(httpClient))

	res, err := client.Fetch(t.Context(), "copper", "USD")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, "GoldAPI", res.Source)
	require.Contains(t, res.Err, "unsupported metal")
}

func TestFetch_RateLimited(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(bytes.NewReader(nil)),
		}, nil).
		Times(1)

	client := goldapi.New("t", goldapi.WithHTTPClient(httpClient))

	res, err := client.Fetch(t.Context(), "gold", "USD")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.True(t, res.RateLimited)
	require.Contains(t, res.Err, "429")
}

func TestFetch_HTTPError_ReturnsError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(bytes.NewBufferString("boom")),
		}, nil).
		Times(1)

	client := goldapi.New("t", goldapi.WithHTTPClient(httpClient))

	_, err := client.Fetch(t.Context(), "gold", "USD")
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestFetch_BodyError_ReturnsFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"error":"invalid token"}`)),
		}, nil).
		Times(1)

	client := goldapi.New("t", goldapi.WithHTTPClient(httpClient))

	res, err := client.Fetch(t.Context(), "gold", "USD")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, "invalid token", res.Err)
}

func TestFetch_MissingPrice_ReturnsFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"timestamp":1700000000}`)),
		}, nil).
		Times(1)

	client := goldapi.New("t", goldapi.WithHTTPClient(httpClient))

	res, err := client.Fetch(t.Context(), "platinum", "EUR")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, "price data not available", res.Err)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/api/status", req.URL.Path)
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil))}, nil
		}).
		Times(1)

	client := goldapi.New("t",
		goldapi.WithHTTPClient(httpClient),
		goldapi.WithBaseURL("https://example.test/api"),
	)
	require.NoError(t, client.Status(t.Context()))
}
