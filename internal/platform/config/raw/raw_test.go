package raw

import "testing"

func TestString(t *testing.T) {
	t.Setenv("APP_NAME", " shopkeeper ")
	t.Setenv("CORE_API_PORT", " 4000 ")

	root := New()
	api := root.Prefix("CORE_API_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root trims value", conf: root, key: "APP_NAME", def: "x", want: "shopkeeper"},
		{name: "prefixed hit", conf: api, key: "PORT", def: "x", want: "4000"},
		{name: "missing returns default", conf: api, key: "MISSING", def: "defv", want: "defv"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.conf.String(tc.key, tc.def); got != tc.want {
				t.Fatalf("String(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestBoolAndInt(t *testing.T) {
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "10")
	t.Setenv("LOG_BROKEN", "ten")

	c := New().Prefix("LOG_")
	if !c.Bool("CALLER", false) {
		t.Fatalf("expected yes to parse as true")
	}
	if c.Bool("MISSING", true) != true {
		t.Fatalf("expected default for missing bool")
	}
	if got := c.Int("SAMPLE_EVERY", 0); got != 10 {
		t.Fatalf("Int = %d, want 10", got)
	}
	if got := c.Int("BROKEN", 3); got != 3 {
		t.Fatalf("non-numeric should fall back to default, got %d", got)
	}
}
