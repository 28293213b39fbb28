package resp

import "testing"

func TestOutcome_StatusAndClass(t *testing.T) {
	cases := []struct {
		o      Outcome
		status int
		class  Class
		name   string
	}{
		{Ok, 200, Class2xx, "ok"},
		{NotFound, 404, Class4xx, "not_found"},
		{ServerError, 500, Class5xx, "server_error"},
	}
	for _, tc := range cases {
		if got := tc.o.Status(); got != tc.status {
			t.Fatalf("%v.Status() = %d; want %d", tc.o, got, tc.status)
		}
		if got := tc.o.Class(); got != tc.class {
			t.Fatalf("%v.Class() = %v; want %v", tc.o, got, tc.class)
		}
		if tc.o.String() != tc.name {
			t.Fatalf("String() = %q; want %q", tc.o.String(), tc.name)
		}
	}
}

// Valores fuera de rango se tratan como error de servidor.
func TestOutcome_UnknownIsServerError(t *testing.T) {
	o := Outcome(42)
	if o.Status() != 500 || o.Class() != Class5xx {
		t.Fatalf("unknown outcome: status=%d class=%v", o.Status(), o.Class())
	}
}

func TestClass_String(t *testing.T) {
	for c, want := range map[Class]string{Class2xx: "2xx", Class4xx: "4xx", Class5xx: "5xx"} {
		if c.String() != want {
			t.Fatalf("Class(%d).String() = %q; want %q", c, c.String(), want)
		}
	}
}
