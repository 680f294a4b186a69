package sqlxrepos

import (
	"testing"

	"github.com/codebluemti/tiba/core"
)

func TestOrderClause(t *testing.T) {
	orderable := map[string]bool{"name": true, "created_at": true}

	tests := []struct {
		name     string
		ordering []core.DBOrdering
		want     string
	}{
		{name: "no ordering", ordering: nil, want: ""},
		{
			name:     "ascending and descending",
			ordering: []core.DBOrdering{{Field: "name", Ascending: true}, {Field: "created_at"}},
			want:     " ORDER BY name ASC, created_at DESC",
		},
		{
			name:     "unlisted field is dropped",
			ordering: []core.DBOrdering{{Field: "password", Ascending: true}, {Field: "name", Ascending: true}},
			want:     " ORDER BY name ASC",
		},
		{
			name:     "injection attempt is dropped",
			ordering: []core.DBOrdering{{Field: "name; DROP TABLE student; --", Ascending: true}},
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orderClause(tt.ordering, orderable); got != tt.want {
				t.Errorf("orderClause() = %q; want %q", got, tt.want)
			}
		})
	}
}
