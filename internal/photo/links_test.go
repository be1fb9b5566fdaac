package photo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectLink(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"data url passes through", "data:image/png;base64,aGVsbG8=", "data:image/png;base64,aGVsbG8="},
		{"open query shape", "https://drive.google.com/open?id=FILE123", "https://lh3.googleusercontent.com/d/FILE123"},
		{"id with trailing params", "https://drive.google.com/uc?id=FILE123&export=view", "https://lh3.googleusercontent.com/d/FILE123"},
		{"file path shape", "https://drive.google.com/file/d/FILE456/view?usp=sharing", "https://lh3.googleusercontent.com/d/FILE456"},
		{"unrecognized passes through", "/photos/OUTLET_A/TKT-AAAA1111_1.jpg", "/photos/OUTLET_A/TKT-AAAA1111_1.jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DirectLink(tc.in))
		})
	}
}
