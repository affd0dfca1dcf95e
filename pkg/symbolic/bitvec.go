package symbolic

// BitVec is a fixed-width, non-negative bounded integer represented as
// boolean wires, least-significant bit first. It backs every Int/Real
// sorted Term in the encoder and feature library: horizon_var, per-step
// costs, resource counts, utility sums and function-box indices are all
// small, statically bounded non-negative integers, so an unsigned binary
// encoding is sufficient — no sign bit, no general-purpose ALU.
type BitVec struct {
	bits []BoolTerm // bits[0] is the least significant bit
}

// Width reports the number of bits.
func (b BitVec) Width() int { return len(b.bits) }

// Eval reads this BitVec's integer value out of a solved model.
func (b BitVec) Eval(model map[string]bool) int {
	v := 0
	for i, bit := range b.bits {
		if bit.Eval(model) {
			v |= 1 << uint(i)
		}
	}
	return v
}

// bitsForBound returns the number of bits needed to represent any value in
// [0, maxVal] inclusive.
func bitsForBound(maxVal int) int {
	if maxVal <= 0 {
		return 1
	}
	n := 0
	for v := maxVal; v > 0; v >>= 1 {
		n++
	}
	return n
}

// NewBitVec mints width fresh boolean wires under prefix.
func (c *Context) NewBitVec(prefix string, width int) BitVec {
	if width <= 0 {
		width = 1
	}
	bits := make([]BoolTerm, width)
	for i := range bits {
		bits[i] = c.NewBoolVar(prefix)
	}
	return BitVec{bits: bits}
}

// NewBoundedInt mints a fresh BitVec wide enough to represent any value in
// [0, maxVal], optionally asserting the upper bound via the returned
// constraint (callers should Assert it if maxVal is not already a power
// of two minus one).
func (c *Context) NewBoundedInt(prefix string, maxVal int) (BitVec, BoolTerm) {
	bv := c.NewBitVec(prefix, bitsForBound(maxVal))
	return bv, bv.Le(c.ConstInt(maxVal, bv.Width()))
}

// ConstInt builds a constant BitVec of the given width.
func (c *Context) ConstInt(v int, width int) BitVec {
	if width <= 0 {
		width = bitsForBound(v)
	}
	bits := make([]BoolTerm, width)
	for i := 0; i < width; i++ {
		bit := (v>>uint(i))&1 == 1
		bits[i] = c.BoolConst(bit)
	}
	return BitVec{bits: bits}
}

// align pads the shorter of a, b with constant-false high bits so both
// have equal width, returning new slices (inputs are not mutated).
func align(c *Context, a, b BitVec) (BitVec, BitVec) {
	w := a.Width()
	if b.Width() > w {
		w = b.Width()
	}
	return a.extend(c, w), b.extend(c, w)
}

func (b BitVec) extend(c *Context, width int) BitVec {
	if width <= b.Width() {
		return b
	}
	bits := make([]BoolTerm, width)
	copy(bits, b.bits)
	f := c.BoolConst(false)
	for i := b.Width(); i < width; i++ {
		bits[i] = f
	}
	return BitVec{bits: bits}
}

// Eq builds a <-> b, bit by bit (XNOR chain), zero-extending the shorter
// operand.
func (a BitVec) Eq(b BitVec) BoolTerm {
	c := NewContext()
	x, y := align(c, a, b)
	eqs := make([]BoolTerm, x.Width())
	for i := range eqs {
		eqs[i] = Iff(x.bits[i], y.bits[i])
	}
	return And(eqs...)
}

// Le builds a <= b as a boolean circuit, comparing from the most
// significant bit down, zero-extending the shorter operand.
func (a BitVec) Le(b BitVec) BoolTerm {
	c := NewContext()
	x, y := align(c, a, b)
	// le holds "x <= y given bits examined so far are equal"; built from
	// the top bit down. ltSoFar / eqSoFar follow the standard ripple
	// comparator construction.
	lt := c.BoolConst(false)
	eq := c.BoolConst(true)
	for i := x.Width() - 1; i >= 0; i-- {
		xb, yb := x.bits[i], y.bits[i]
		bitLt := And(Not(xb), yb)
		bitEq := Iff(xb, yb)
		lt = Or(lt, And(eq, bitLt))
		eq = And(eq, bitEq)
	}
	return Or(lt, eq)
}

// Lt builds a < b.
func (a BitVec) Lt(b BitVec) BoolTerm { return And(a.Le(b), Not(a.Eq(b))) }

// Ge builds a >= b.
func (a BitVec) Ge(b BitVec) BoolTerm { return b.Le(a) }

// Gt builds a > b.
func (a BitVec) Gt(b BitVec) BoolTerm { return b.Lt(a) }

// Add builds a ripple-carry sum of a and b, returning a BitVec one bit
// wider than the widest operand (no overflow is ever lost).
func (a BitVec) Add(b BitVec) BitVec {
	c := NewContext()
	x, y := align(c, a, b)
	bits := make([]BoolTerm, x.Width()+1)
	carry := c.BoolConst(false)
	for i := 0; i < x.Width(); i++ {
		xb, yb := x.bits[i], y.bits[i]
		bits[i] = Xor3(xb, yb, carry)
		carry = MajorityOf3(xb, yb, carry)
	}
	bits[x.Width()] = carry
	return BitVec{bits: bits}
}

// Sub builds a bounded subtraction a - b: a ripple-borrow subtractor whose
// result is clamped to zero when b > a, so the unsigned BitVec
// representation never has to model negative numbers. This mirrors the
// task-level invariant that numeric fluents (energy, resource counts,
// etc.) are kept non-negative by the grounded actions that decrease them.
func (a BitVec) Sub(b BitVec) BitVec {
	c := NewContext()
	x, y := align(c, a, b)
	bits := make([]BoolTerm, x.Width())
	borrow := c.BoolConst(false)
	for i := 0; i < x.Width(); i++ {
		xb, yb := x.bits[i], y.bits[i]
		bits[i] = Xor3(xb, yb, borrow)
		borrow = Or(And(Not(xb), yb), And(Not(xb), borrow), And(yb, borrow))
	}
	raw := BitVec{bits: bits}
	return Select(borrow, c.ConstInt(0, raw.Width()), raw)
}

// Xor3 builds the three-input XOR used for a full-adder sum bit.
func Xor3(a, b, c BoolTerm) BoolTerm {
	return Or(
		And(a, Not(b), Not(c)),
		And(Not(a), b, Not(c)),
		And(Not(a), Not(b), c),
		And(a, b, c),
	)
}

// MajorityOf3 builds the carry-out of a full adder: true iff at least two
// of the three inputs are true.
func MajorityOf3(a, b, c BoolTerm) BoolTerm {
	return Or(And(a, b), And(a, c), And(b, c))
}

// Sum folds Add over a list of BitVecs, returning a zero BitVec (width 1)
// for an empty list.
func Sum(vecs ...BitVec) BitVec {
	c := NewContext()
	if len(vecs) == 0 {
		return c.ConstInt(0, 1)
	}
	acc := vecs[0]
	for _, v := range vecs[1:] {
		acc = acc.Add(v)
	}
	return acc
}

// SumBits treats each boolean wire as a 0/1 value of weight 1 and sums
// them into a BitVec wide enough to hold the count.
func (c *Context) SumBits(wires ...BoolTerm) BitVec {
	vecs := make([]BitVec, len(wires))
	for i, w := range wires {
		vecs[i] = BitVec{bits: []BoolTerm{w}}
	}
	return Sum(vecs...)
}

// Select is a multiplexer: cond ? then : els, bit by bit.
func Select(cond BoolTerm, then, els BitVec) BitVec {
	c := NewContext()
	x, y := align(c, then, els)
	bits := make([]BoolTerm, x.Width())
	for i := range bits {
		bits[i] = Or(And(cond, x.bits[i]), And(Not(cond), y.bits[i]))
	}
	return BitVec{bits: bits}
}

// PbEq asserts that exactly k of the given boolean wires (each weight 1)
// are true — the pseudo-boolean PbEq({(a,1)...}, k) of spec.md, expressed
// as an equality against a constant over the bit-blasted running sum.
func (c *Context) PbEq(wires []BoolTerm, k int) BoolTerm {
	sum := c.SumBits(wires...)
	return sum.Eq(c.ConstInt(k, sum.Width()))
}

// PbLe asserts that at most k of the given wires are true.
func (c *Context) PbLe(wires []BoolTerm, k int) BoolTerm {
	sum := c.SumBits(wires...)
	return sum.Le(c.ConstInt(k, sum.Width()))
}

// PbGe asserts that at least k of the given wires are true.
func (c *Context) PbGe(wires []BoolTerm, k int) BoolTerm {
	sum := c.SumBits(wires...)
	return sum.Ge(c.ConstInt(k, sum.Width()))
}
