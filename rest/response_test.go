package rest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Time
		wantErr bool
	}{
		{value: "2021-03-04T05:06:07.123Z", want: time.Date(2021, 3, 4, 5, 6, 7, 123000000, time.UTC)},
		{value: "2021-03-04T05:06:07Z", want: time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)},
		{value: "2021-03-04T05:06:07.1234567", want: time.Date(2021, 3, 4, 5, 6, 7, 123456700, time.UTC)},
		{value: "2021-03-04T05:06:07", want: time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)},
		{value: "2021-03-04T07:06:07+02:00", want: time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)},
		{value: "03/04/2021 05:06:07 AM", want: time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)},
		{value: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseTime(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestResponseDecode(t *testing.T) {
	type record struct {
		ID        int64     `json:"accountId"`
		Name      string    `json:"username"`
		Junior    bool      `json:"isJunior"`
		CreatedAt time.Time `json:"createdAt"`
		Tags      []string  `json:"tags"`
	}

	resp := &Response{
		Payload: map[string]any{
			"accountId": json.Number("42"),
			"username":  "coach",
			"isJunior":  false,
			"createdAt": "2016-05-31T18:18:36.2Z",
			"tags":      []any{"a", "b"},
			"extra":     "ignored",
		},
	}

	var got record
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "coach", got.Name)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.Equal(t, time.Date(2016, 5, 31, 18, 18, 36, 200000000, time.UTC), got.CreatedAt)
}

func TestResponseDecodeList(t *testing.T) {
	type item struct {
		ID int64 `json:"id"`
	}
	resp := &Response{Payload: []any{
		map[string]any{"id": json.Number("1")},
		map[string]any{"id": json.Number("2")},
	}}

	var got []item
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, []item{{ID: 1}, {ID: 2}}, got)
}

func TestResponseDecodeBadTime(t *testing.T) {
	resp := &Response{Payload: map[string]any{"createdAt": "not a time"}}
	var got struct {
		CreatedAt time.Time `json:"createdAt"`
	}
	require.Error(t, resp.Decode(&got))
}
