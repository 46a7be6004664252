package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "integer", raw: `2048`, want: 2048},
		{name: "float", raw: `0.123`, want: 0.123},
		{name: "negative", raw: `-1.5`, want: -1.5},
		{name: "null", raw: `null`, want: 0},
		{name: "string", raw: `"abc"`, want: 0},
		{name: "numeric string", raw: `"12"`, want: 0},
		{name: "bool", raw: `true`, want: 0},
		{name: "object", raw: `{"a":1}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				N Number `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"n":`+tt.raw+`}`), &doc))
			assert.InDelta(t, tt.want, doc.N.Float(), 1e-9)
		})
	}
}

func TestFloatPtr(t *testing.T) {
	n := Number(3.5)
	assert.Equal(t, 3.5, FloatPtr(&n))
	assert.Equal(t, 0.0, FloatPtr(nil))
}

func TestOrderedMap_PreservesOrder(t *testing.T) {
	var m OrderedMap[Number]
	require.NoError(t, json.Unmarshal([]byte(`{"b":2,"a":1,"c":3}`), &m))

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, Number(1), v)
}

func TestOrderedMap_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	var m OrderedMap[Number]
	require.NoError(t, json.Unmarshal([]byte(`{"x":1,"y":2,"x":5}`), &m))

	assert.Equal(t, []string{"x", "y"}, m.Keys())
	v, _ := m.Get("x")
	assert.Equal(t, Number(5), v)
}

func TestOrderedMap_AbsentVersusEmpty(t *testing.T) {
	var absent StatsPayload
	require.NoError(t, json.Unmarshal([]byte(`{"total_urls":1}`), &absent))
	assert.Nil(t, absent.ErrorTypes)
	assert.Nil(t, absent.Domains)

	var null StatsPayload
	require.NoError(t, json.Unmarshal([]byte(`{"error_types":null}`), &null))
	assert.Nil(t, null.ErrorTypes)

	var empty StatsPayload
	require.NoError(t, json.Unmarshal([]byte(`{"error_types":{}}`), &empty))
	require.NotNil(t, empty.ErrorTypes)
	assert.Equal(t, 0, empty.ErrorTypes.Len())
}

func TestOrderedMap_NonObjectDecodesEmpty(t *testing.T) {
	var stats StatsPayload
	require.NoError(t, json.Unmarshal([]byte(`{"domains":[1,2],"error_types":"none"}`), &stats))

	require.NotNil(t, stats.Domains)
	assert.Equal(t, 0, stats.Domains.Len())
	require.NotNil(t, stats.ErrorTypes)
	assert.Equal(t, 0, stats.ErrorTypes.Len())
}

func TestOrderedMap_WrongTypedValueDecodesZero(t *testing.T) {
	var m OrderedMap[DomainCounters]
	require.NoError(t, json.Unmarshal([]byte(`{"a.com":"broken","b.com":{"count":2}}`), &m))

	assert.Equal(t, []string{"a.com", "b.com"}, m.Keys())
	a, _ := m.Get("a.com")
	assert.Equal(t, Number(0), a.Count)
	b, _ := m.Get("b.com")
	assert.Equal(t, Number(2), b.Count)
}

func TestOrderedMap_MarshalJSON(t *testing.T) {
	m := NewOrderedMap[Number]()
	m.Set("Timeout", 2)
	m.Set("ConnectionError", 1)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Timeout":2,"ConnectionError":1}`, string(data))
	assert.Equal(t, `{"Timeout":2,"ConnectionError":1}`, string(data))
}

func TestOrderedMap_NilReceiver(t *testing.T) {
	var m *OrderedMap[Number]
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	_, ok := m.Get("x")
	assert.False(t, ok)
}

func TestCrawlResponse_DecodeBackendPayload(t *testing.T) {
	payload := `{
		"results": [
			{"url": "https://a.com/x", "size": 2048, "time": 1.5, "status": "成功",
			 "images": ["https://i0.hdslb.com/bfs/a.jpg"], "text": "hello",
			 "performance": {"dns_time": 0.123, "html_size": 2048}},
			{"url": "https://b.com/", "size": 0, "time": 0.2, "status": "请求失败: timeout",
			 "error_type": "Timeout", "error_details": "read timed out"}
		],
		"stats": {
			"total_urls": 2, "success_count": 1, "failed_count": 1,
			"domains": {"a.com": {"count": 1, "success_count": 1, "avg_time": 1.5},
			            "b.com": {"count": 1, "failed_count": 1}},
			"error_types": {"Timeout": 1}
		}
	}`

	var resp CrawlResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))

	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Succeeded())
	assert.False(t, resp.Results[1].Succeeded())
	require.NotNil(t, resp.Results[0].Performance)
	assert.Nil(t, resp.Results[1].Performance)
	assert.Equal(t, "Timeout", resp.Results[1].ErrorType)

	assert.Equal(t, []string{"a.com", "b.com"}, resp.Stats.Domains.Keys())
	a, _ := resp.Stats.Domains.Get("a.com")
	require.NotNil(t, a.AvgTime)
	assert.Equal(t, 1.5, a.AvgTime.Float())
	b, _ := resp.Stats.Domains.Get("b.com")
	assert.Nil(t, b.AvgTime)
}

func TestCrawlRecord_Succeeded(t *testing.T) {
	assert.True(t, CrawlRecord{Status: "成功"}.Succeeded())
	assert.True(t, CrawlRecord{Status: "Success"}.Succeeded())
	assert.False(t, CrawlRecord{Status: "失败: boom"}.Succeeded())
	assert.False(t, CrawlRecord{}.Succeeded())
}

func TestCrawlRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CrawlRequest
		wantErr error
	}{
		{
			name: "defaults applied",
			req:  CrawlRequest{URLs: "https://a.com"}.WithDefaults(),
		},
		{
			name:    "blank urls",
			req:     CrawlRequest{URLs: " \n\n  "}.WithDefaults(),
			wantErr: errURLsRequired,
		},
		{
			name:    "max size too large",
			req:     CrawlRequest{URLs: "https://a.com", MaxSize: 10001, ContentType: ContentAll},
			wantErr: errMaxSizeOutOfRange,
		},
		{
			name:    "negative max size",
			req:     CrawlRequest{URLs: "https://a.com", MaxSize: -5, ContentType: ContentAll},
			wantErr: errMaxSizeOutOfRange,
		},
		{
			name:    "unknown content type",
			req:     CrawlRequest{URLs: "https://a.com", MaxSize: 10, ContentType: "video"},
			wantErr: errUnknownContentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCrawlRequest_URLList(t *testing.T) {
	req := CrawlRequest{URLs: " https://a.com \n\nhttps://b.com/x?y=1\r\n"}
	assert.Equal(t, []string{"https://a.com", "https://b.com/x?y=1"}, req.URLList())
}

func TestNewCrawlRequest(t *testing.T) {
	req := NewCrawlRequest([]string{"https://a.com", "https://b.com"}, 500, ContentImages)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"urls":"https://a.com\nhttps://b.com","maxSize":500,"contentType":"images"}`, string(data))
}
