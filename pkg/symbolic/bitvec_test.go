package symbolic

import "testing"

func TestBitsForBound(t *testing.T) {
	cases := []struct {
		max  int
		bits int
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {7, 3}, {8, 4}, {255, 8},
	}
	for _, c := range cases {
		if got := bitsForBound(c.max); got != c.bits {
			t.Errorf("bitsForBound(%d) = %d, want %d", c.max, got, c.bits)
		}
	}
}

func TestConstIntRoundTrip(t *testing.T) {
	ctx := NewContext()
	for _, v := range []int{0, 1, 5, 17, 255} {
		bv := ctx.ConstInt(v, bitsForBound(v))
		if got := bv.Eval(nil); got != v {
			t.Errorf("ConstInt(%d).Eval(nil) = %d, want %d", v, got, v)
		}
	}
}

func TestBitVecEqLeLtGeGt(t *testing.T) {
	ctx := NewContext()
	for a := 0; a <= 7; a++ {
		for b := 0; b <= 7; b++ {
			av := ctx.ConstInt(a, 3)
			bv := ctx.ConstInt(b, 3)

			if got := av.Eq(bv).Eval(nil); got != (a == b) {
				t.Errorf("%d.Eq(%d) = %v, want %v", a, b, got, a == b)
			}
			if got := av.Le(bv).Eval(nil); got != (a <= b) {
				t.Errorf("%d.Le(%d) = %v, want %v", a, b, got, a <= b)
			}
			if got := av.Lt(bv).Eval(nil); got != (a < b) {
				t.Errorf("%d.Lt(%d) = %v, want %v", a, b, got, a < b)
			}
			if got := av.Ge(bv).Eval(nil); got != (a >= b) {
				t.Errorf("%d.Ge(%d) = %v, want %v", a, b, got, a >= b)
			}
			if got := av.Gt(bv).Eval(nil); got != (a > b) {
				t.Errorf("%d.Gt(%d) = %v, want %v", a, b, got, a > b)
			}
		}
	}
}

func TestBitVecAdd(t *testing.T) {
	ctx := NewContext()
	for a := 0; a <= 7; a++ {
		for b := 0; b <= 7; b++ {
			av := ctx.ConstInt(a, 3)
			bv := ctx.ConstInt(b, 3)
			sum := av.Add(bv)
			if got := sum.Eval(nil); got != a+b {
				t.Errorf("%d.Add(%d) = %d, want %d", a, b, got, a+b)
			}
			if sum.Width() != 4 {
				t.Errorf("Add width = %d, want 4 (one wider than widest 3-bit operand)", sum.Width())
			}
		}
	}
}

func TestBitVecSubClampsAtZero(t *testing.T) {
	ctx := NewContext()
	for a := 0; a <= 7; a++ {
		for b := 0; b <= 7; b++ {
			av := ctx.ConstInt(a, 3)
			bv := ctx.ConstInt(b, 3)
			want := a - b
			if want < 0 {
				want = 0
			}
			if got := av.Sub(bv).Eval(nil); got != want {
				t.Errorf("%d.Sub(%d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestSumAndSumBits(t *testing.T) {
	ctx := NewContext()
	vecs := []BitVec{ctx.ConstInt(1, 3), ctx.ConstInt(2, 3), ctx.ConstInt(3, 3)}
	if got := Sum(vecs...).Eval(nil); got != 6 {
		t.Errorf("Sum(1,2,3) = %d, want 6", got)
	}
	if got := Sum().Eval(nil); got != 0 {
		t.Errorf("Sum() = %d, want 0", got)
	}

	wires := []BoolTerm{ctx.BoolConst(true), ctx.BoolConst(false), ctx.BoolConst(true), ctx.BoolConst(true)}
	if got := ctx.SumBits(wires...).Eval(nil); got != 3 {
		t.Errorf("SumBits with 3 true wires = %d, want 3", got)
	}
}

func TestSelect(t *testing.T) {
	ctx := NewContext()
	then := ctx.ConstInt(5, 4)
	els := ctx.ConstInt(9, 4)

	if got := Select(ctx.BoolConst(true), then, els).Eval(nil); got != 5 {
		t.Errorf("Select(true, 5, 9) = %d, want 5", got)
	}
	if got := Select(ctx.BoolConst(false), then, els).Eval(nil); got != 9 {
		t.Errorf("Select(false, 5, 9) = %d, want 9", got)
	}
}

func TestPbEqPbLePbGe(t *testing.T) {
	ctx := NewContext()
	wires := []BoolTerm{ctx.BoolConst(true), ctx.BoolConst(true), ctx.BoolConst(false)}

	if !ctx.PbEq(wires, 2).Eval(nil) {
		t.Error("PbEq(wires, 2) should hold: exactly two wires are true")
	}
	if ctx.PbEq(wires, 1).Eval(nil) {
		t.Error("PbEq(wires, 1) should not hold")
	}
	if !ctx.PbLe(wires, 2).Eval(nil) {
		t.Error("PbLe(wires, 2) should hold")
	}
	if ctx.PbLe(wires, 1).Eval(nil) {
		t.Error("PbLe(wires, 1) should not hold: two wires are true")
	}
	if !ctx.PbGe(wires, 2).Eval(nil) {
		t.Error("PbGe(wires, 2) should hold")
	}
	if ctx.PbGe(wires, 3).Eval(nil) {
		t.Error("PbGe(wires, 3) should not hold: only two wires are true")
	}
}

func TestNewBoundedIntWidthAndBound(t *testing.T) {
	ctx := NewContext()
	bv, bound := ctx.NewBoundedInt("h", 5)
	if bv.Width() != bitsForBound(5) {
		t.Errorf("NewBoundedInt(5) width = %d, want %d", bv.Width(), bitsForBound(5))
	}
	// The returned bound term should itself be a well-formed BoolTerm
	// (Le against a constant); its truth depends on bv's own bits, which
	// are unconstrained variables here, so just check it evaluates without
	// panicking under an assignment of all-false bits.
	_ = bound.Eval(map[string]bool{})
}
