package grants

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grant_Equals(t *testing.T) {
	base := New("CAMERA", true, false)

	tests := []struct {
		name  string
		other Grant
		want  bool
	}{
		{"identical", New("CAMERA", true, false), true},
		{"different key", New("AUDIO", true, false), false},
		{"different authorized", New("CAMERA", false, false), false},
		{"different rationale", New("CAMERA", true, true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Equals(tt.other))
			assert.Equal(t, tt.want, base == tt.other)
		})
	}
}

func Test_Grant_String(t *testing.T) {
	assert.Equal(t, `Grant{key="CAMERA", authorized=true, canExplainRationale=false}`,
		New("CAMERA", true, false).String())
}

func Test_Combine(t *testing.T) {
	tests := []struct {
		name string
		list []Grant
		want Grant
	}{
		{
			name: "empty list is never authorized",
			list: nil,
			want: Grant{Key: "", Authorized: false, CanExplainRationale: false},
		},
		{
			name: "single grant is returned unchanged",
			list: []Grant{New("CAMERA", true, true)},
			want: New("CAMERA", true, true),
		},
		{
			name: "all authorized",
			list: []Grant{New("CAMERA", true, false), New("AUDIO", true, false)},
			want: New("CAMERA,AUDIO", true, false),
		},
		{
			name: "one denied with rationale",
			list: []Grant{New("CAMERA", true, false), New("AUDIO", false, true)},
			want: New("CAMERA,AUDIO", false, true),
		},
		{
			name: "order follows input",
			list: []Grant{New("AUDIO", false, false), New("CAMERA", true, false), New("SMS", true, false)},
			want: New("AUDIO,CAMERA,SMS", false, false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.list))
		})
	}
}

// Every authorization and rationale vector for up to four keys.
func Test_Combine_AllVectors(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for mask := 0; mask < 1<<n; mask++ {
			for rmask := 0; rmask < 1<<n; rmask++ {
				list := make([]Grant, n)
				wantAuthorized := true
				wantRationale := false
				for i := 0; i < n; i++ {
					authorized := mask&(1<<i) != 0
					rationale := rmask&(1<<i) != 0
					list[i] = New(fmt.Sprintf("K%d", i), authorized, rationale)
					wantAuthorized = wantAuthorized && authorized
					wantRationale = wantRationale || rationale
				}

				got := Combine(list)
				assert.Equal(t, wantAuthorized, got.Authorized, "n=%d mask=%b", n, mask)
				assert.Equal(t, wantRationale, got.CanExplainRationale, "n=%d rmask=%b", n, rmask)
				assert.Equal(t, wantAuthorized, AllAuthorized(list), "n=%d mask=%b", n, mask)
			}
		}
	}
}

func Test_AllAuthorized_Empty(t *testing.T) {
	assert.False(t, AllAuthorized(nil))
	assert.False(t, AllAuthorized([]Grant{}))
}
