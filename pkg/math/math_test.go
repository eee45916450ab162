package math

import (
	"math"
	"testing"
)

const eps = 1e-4

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= eps
}

func matNear(a, b Mat4) bool {
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestVec3Ops(t *testing.T) {
	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"add", V3(1, 2, 3).Add(V3(4, 5, 6)), V3(5, 7, 9)},
		{"sub", V3(4, 5, 6).Sub(V3(1, 2, 3)), V3(3, 3, 3)},
		{"scale", V3(1, -2, 3).Scale(2), V3(2, -4, 6)},
		{"mul", V3(1, 2, 3).Mul(V3(2, 3, 4)), V3(2, 6, 12)},
		{"div", V3(4, 9, 1).Div(V3(2, 3, 0)), V3(2, 3, 0)},
		{"cross", V3(1, 0, 0).Cross(V3(0, 1, 0)), V3(0, 0, 1)},
		{"min", V3(1, 5, -2).Min(V3(3, 2, -1)), V3(1, 2, -2)},
		{"max", V3(1, 5, -2).Max(V3(3, 2, -1)), V3(3, 5, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.ApproxEqual(tt.want, eps) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestVec3Normalize(t *testing.T) {
	if l := V3(3, 4, 12).Normalize().Length(); !near(l, 1) {
		t.Errorf("Normalize().Length() = %v, want 1", l)
	}
	if n := (Vec3{}).Normalize(); n != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero", n)
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	if got := m.Mul(Identity()); got != m {
		t.Errorf("M * I = %v, want %v", got, m)
	}
}

func TestMulPoint(t *testing.T) {
	got := Translate(10, 20, 30).MulPoint(V3(1, 2, 3))
	if got != V3(11, 22, 33) {
		t.Errorf("MulPoint = %v, want (11, 22, 33)", got)
	}
	dir := Translate(10, 20, 30).MulDir(V3(1, 2, 3))
	if dir != V3(1, 2, 3) {
		t.Errorf("MulDir = %v, want translation ignored", dir)
	}
}

func TestRotateY(t *testing.T) {
	got := RotateY(float32(math.Pi / 2)).MulPoint(V3(1, 0, 0))
	if !got.ApproxEqual(V3(0, 0, -1), eps) {
		t.Errorf("RotateY(90) * X = %v, want (0, 0, -1)", got)
	}
}

func TestInverse(t *testing.T) {
	m := Compose(V3(1, -2, 3), QuatFromEuler(V3(0.3, 0.7, -0.2)), V3(2, 1, 0.5))
	if got := m.Mul(m.Inverse()); !matNear(got, Identity()) {
		t.Errorf("M * M^-1 = %v, want identity", got)
	}
}

func TestQuatFromEulerMatchesMatrices(t *testing.T) {
	e := V3(0.4, -1.1, 0.25)
	want := RotateX(e.X).Mul(RotateY(e.Y)).Mul(RotateZ(e.Z))
	if got := QuatFromEuler(e).ToMat4(); !matNear(got, want) {
		t.Errorf("QuatFromEuler(%v).ToMat4() = %v, want %v", e, got, want)
	}
}

func TestQuatNormalizeDegenerate(t *testing.T) {
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("zero Normalize() = %v, want identity", got)
	}
}

func TestCompose(t *testing.T) {
	m := Compose(V3(5, 0, 0), QuatIdentity(), V3(2, 3, 4))
	if got := m.MulPoint(V3(1, 1, 1)); !got.ApproxEqual(V3(7, 3, 4), eps) {
		t.Errorf("Compose point = %v, want (7, 3, 4)", got)
	}
	if got := m.Translation(); got != V3(5, 0, 0) {
		t.Errorf("Translation() = %v", got)
	}
}

func TestPerspectiveCenter(t *testing.T) {
	p := Perspective(float32(math.Pi/3), 1, 0.1, 100)
	ndc := p.MulPoint(V3(0, 0, -10))
	if !near(ndc.X, 0) || !near(ndc.Y, 0) || ndc.Z <= -1 || ndc.Z >= 1 {
		t.Errorf("center point projects to %v", ndc)
	}
}

func TestOrthoMapsBoxToNDC(t *testing.T) {
	o := Ortho(-10, 10, -5, 5, 1, 21)
	tests := []struct {
		in, want Vec3
	}{
		{V3(-10, -5, -1), V3(-1, -1, -1)},
		{V3(10, 5, -21), V3(1, 1, 1)},
		{V3(0, 0, -11), V3(0, 0, 0)},
	}
	for _, tt := range tests {
		got := o.MulPoint(tt.in)
		if !got.ApproxEqual(tt.want, 1e-5) {
			t.Errorf("Ortho(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
