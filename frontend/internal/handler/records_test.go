package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	frontend_domain "github.com/eduportal/portal/frontend/internal/domain"
)

func recordHandler() *Handler {
	return &Handler{mediaURL: func(rel string) string { return "http://media.test" + rel }}
}

func TestToRecordsShapes(t *testing.T) {
	h := recordHandler()
	tests := []struct {
		name string
		raw  string
		want []frontend_domain.Record
	}{
		{
			name: "attributes envelope",
			raw:  `{"data":[{"id":1,"attributes":{"title":"Algebra","description":"Linear maps","credits":4,"createdAt":"x"}}]}`,
			want: []frontend_domain.Record{{ID: "1", Title: "Algebra", Summary: "Linear maps", Fields: []frontend_domain.Field{{Key: "credits", Value: "4"}}}},
		},
		{
			name: "flat list",
			raw:  `[{"id":2,"documentId":"doc-2","name":"Dr. Wang","is_deleted":true,"avatar":{"url":"/uploads/w.png"}}]`,
			want: []frontend_domain.Record{{ID: "doc-2", Title: "Dr. Wang", Image: "http://media.test/uploads/w.png", Deleted: true,
				Fields: []frontend_domain.Field{{Key: "is_deleted", Value: "true"}}}},
		},
		{
			name: "single object",
			raw:  `{"data":{"id":3}}`,
			want: []frontend_domain.Record{{ID: "3", Title: "#3"}},
		},
		{name: "scalar", raw: `"ok"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.toRecords(json.RawMessage(tt.raw)))
		})
	}
}

func TestToRecordSkipsNestedAndSortsFields(t *testing.T) {
	h := recordHandler()
	rec := h.toSingleRecord(json.RawMessage(`{"id":1,"zeta":"z","alpha":"a","tags":["x"],"meta":{"k":1},"gone":null}`))
	require.NotNil(t, rec)
	assert.Equal(t, []frontend_domain.Field{{Key: "alpha", Value: "a"}, {Key: "zeta", Value: "z"}}, rec.Fields)

	assert.Nil(t, h.toSingleRecord(json.RawMessage(`[]`)))
}

func TestVisibleAndDeleted(t *testing.T) {
	records := []frontend_domain.Record{{ID: "1"}, {ID: "2", Deleted: true}, {ID: "3"}}
	assert.Equal(t, []frontend_domain.Record{{ID: "1"}, {ID: "3"}}, visible(records))
	assert.Equal(t, []frontend_domain.Record{{ID: "2", Deleted: true}}, deleted(records))
	assert.Len(t, records, 3)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "数学很…", truncate("数学很好", 3))
}

func TestUploadedIDs(t *testing.T) {
	assert.Equal(t, []int64{4, 5}, uploadedIDs(json.RawMessage(`[{"id":4},{"id":5}]`)))
	assert.Equal(t, []int64{6}, uploadedIDs(json.RawMessage(`{"data":[{"id":6}]}`)))
	assert.Nil(t, uploadedIDs(json.RawMessage(`{}`)))
}
