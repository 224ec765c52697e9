package filter_test

import (
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"vagas-dashboard/internal/filter"
)

var _ = Describe("Selection", func() {
	It("omits unset dimensions from the query", func() {
		sel := filter.Selection{}.
			With(filter.Source, "indeed").
			With(filter.English, "fluente")

		v := sel.Values()
		Expect(v).To(HaveLen(2))
		Expect(v.Get("fonte")).To(Equal("indeed"))
		Expect(v.Get("requisito_ingles")).To(Equal("fluente"))
		Expect(v).NotTo(HaveKey("status"))
		Expect(v).NotTo(HaveKey("modalidade"))
		Expect(v.Encode()).To(Equal("fonte=indeed&requisito_ingles=fluente"))
	})

	It("removes the key when the no-constraint value is chosen", func() {
		sel := filter.Selection{}.With(filter.Status, "aplicada")
		Expect(sel).To(HaveKey(filter.Status))

		sel = sel.With(filter.Status, "")
		Expect(sel).NotTo(HaveKey(filter.Status))
		Expect(sel.Values().Encode()).To(BeEmpty())
	})

	It("never stores values outside the option set", func() {
		sel := filter.Selection{}.With(filter.WorkMode, "lua")
		Expect(sel).To(BeEmpty())
		sel = filter.Selection{}.With(filter.Source, "aplicada")
		Expect(sel).To(BeEmpty())
	})

	It("does not mutate the receiver", func() {
		base := filter.Selection{}.With(filter.Source, "indeed")
		_ = base.With(filter.Status, "pendente")
		Expect(base).To(HaveLen(1))
	})

	It("clears to the empty mapping from any state", func() {
		for _, sel := range []filter.Selection{
			nil,
			{},
			filter.Selection{}.With(filter.Source, "indeed").With(filter.Status, "descartada").
				With(filter.WorkMode, "remoto").With(filter.English, "basico"),
		} {
			cleared := sel.Clear()
			Expect(cleared).NotTo(BeNil())
			Expect(cleared).To(BeEmpty())
			Expect(cleared.Values()).To(BeEmpty())
		}
	})

	It("compares selections by content", func() {
		a := filter.Selection{}.With(filter.Source, "indeed")
		b := filter.Selection{}.With(filter.Source, "indeed")
		Expect(a.Equal(b)).To(BeTrue())
		Expect(a.Equal(b.With(filter.Status, "pendente"))).To(BeFalse())
		Expect(filter.Selection(nil).Equal(filter.Selection{})).To(BeTrue())
	})
})

var _ = Describe("FromQuery", func() {
	It("keeps recognised dimensions with valid values only", func() {
		q := url.Values{
			"fonte":      {"linkedin_jobs"},
			"status":     {""},
			"modalidade": {"marte"},
			"page":       {"2"},
		}
		sel := filter.FromQuery(q)
		Expect(sel).To(Equal(filter.Selection{filter.Source: "linkedin_jobs"}))
		Expect(sel.Keys()).To(Equal([]filter.Dimension{filter.Source}))
	})
})

var _ = Describe("Panel", func() {
	It("renders one control per dimension with the current value", func() {
		sel := filter.Selection{}.With(filter.WorkMode, "hibrido")
		panel := filter.Panel(sel)
		Expect(panel).To(HaveLen(4))
		Expect(panel[0].Label).To(Equal("Fonte"))
		Expect(panel[0].Selected).To(BeEmpty())
		Expect(panel[2].Dimension).To(Equal(filter.WorkMode))
		Expect(panel[2].Selected).To(Equal("hibrido"))
		Expect(panel[3].Options).To(HaveLen(4))
	})
})
