package feature

import (
	"fmt"
	"strconv"

	"github.com/gitrdm/bplan/pkg/planenc"
	"github.com/gitrdm/bplan/pkg/symbolic"
)

// resourceCountFeature implements resource_count of spec.md §4.2.3. The
// resource file itself is parsed by pkg/specdsl; this feature only needs
// the resulting resource names.
type resourceCountFeature struct {
	names  []string
	domain *DomainSet

	used  []symbolic.BoolTerm
	count symbolic.BitVec
}

// NewResourceCount builds the resource-set count feature over the given
// resource names (grounded object names, as parsed from a ":resource"
// DSL file by pkg/specdsl).
func NewResourceCount(names []string) Feature {
	return &resourceCountFeature{names: names, domain: NewDomainSet()}
}

func (f *resourceCountFeature) Name() string { return "resource_count" }

func (f *resourceCountFeature) Attach(enc planenc.Capabilities) ([]symbolic.BoolTerm, error) {
	ctx := enc.Ctx()
	f.used = make([]symbolic.BoolTerm, len(f.names))
	var assertions []symbolic.BoolTerm
	for i, r := range f.names {
		used := ctx.NewBoolVar(fmt.Sprintf("used_%s", sanitize(r)))
		actions := enc.ActionsThatUsesResource(r)
		assertions = append(assertions, symbolic.Iff(used, symbolic.Or(actions...)))
		f.used[i] = used
	}
	f.count = ctx.SumBits(f.used...)
	return assertions, nil
}

func (f *resourceCountFeature) BehaviourExpr(m *symbolic.Model) symbolic.BoolTerm {
	v := m.EvalInt(f.count)
	return f.count.Eq(symbolic.NewContext().ConstInt(v, f.count.Width()))
}

func (f *resourceCountFeature) Discretise(m *symbolic.Model) Reading {
	v := m.EvalInt(f.count)
	r := Reading{Values: map[string]string{"resource_count": strconv.Itoa(v)}}
	f.domain.Add(r)
	return r
}

func (f *resourceCountFeature) Domain() *DomainSet { return f.domain }
