package domain_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"vagas-dashboard/internal/domain"
)

var _ = Describe("ParseStatus", func() {
	It("accepts every review status", func() {
		for _, s := range []string{"pendente", "aplicada", "descartada"} {
			got, err := domain.ParseStatus(s)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(got)).To(Equal(s))
		}
	})

	It("rejects unknown and empty values", func() {
		_, err := domain.ParseStatus("arquivada")
		Expect(err).To(HaveOccurred())
		_, err = domain.ParseStatus("")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("enum parsing", func() {
	It("parses sources, work modes and english levels", func() {
		_, err := domain.ParseSource("linkedin_posts")
		Expect(err).NotTo(HaveOccurred())
		_, err = domain.ParseSource("glassdoor")
		Expect(err).To(HaveOccurred())

		_, err = domain.ParseWorkMode("hibrido")
		Expect(err).NotTo(HaveOccurred())
		_, err = domain.ParseWorkMode("hybrid")
		Expect(err).To(HaveOccurred())

		_, err = domain.ParseEnglishLevel("fluente")
		Expect(err).NotTo(HaveOccurred())
		_, err = domain.ParseEnglishLevel("native")
		Expect(err).To(HaveOccurred())
	})

	It("treats nao_especificado as unspecified", func() {
		Expect(domain.WorkModeUnspecified.Specified()).To(BeFalse())
		Expect(domain.WorkMode("").Specified()).To(BeFalse())
		Expect(domain.WorkModeRemote.Specified()).To(BeTrue())
		Expect(domain.EnglishUnspecified.Specified()).To(BeFalse())
		Expect(domain.EnglishNone.Specified()).To(BeTrue())
	})

	It("labels sources like the filter panel", func() {
		Expect(domain.SourceLinkedInJobs.Label()).To(Equal("LinkedIn Vagas"))
		Expect(domain.Source("outra").Label()).To(Equal("outra"))
	})
})

var _ = Describe("Listing JSON", func() {
	It("decodes the backend shape with null optionals", func() {
		body := `{"id":7,"fonte":"linkedin_posts","titulo":"UX Designer","empresa":null,
			"nome_autor":"Ana","perfil_autor":null,"status":"aplicada","data_coleta":"2024-05-02"}`
		var l domain.Listing
		Expect(json.Unmarshal([]byte(body), &l)).To(Succeed())
		Expect(l.ID).To(Equal(int64(7)))
		Expect(l.Source).To(Equal(domain.SourceLinkedInPosts))
		Expect(l.Company).To(BeEmpty())
		Expect(l.AuthorName).To(Equal("Ana"))
		Expect(l.Status).To(Equal(domain.StatusApplied))
	})

	It("omits nil fields of a partial update", func() {
		st := domain.StatusDiscarded
		b, err := json.Marshal(domain.ListingUpdate{Status: &st})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal(`{"status":"descartada"}`))
	})
})

var _ = Describe("Stats and scrape results", func() {
	It("counts missing statuses as zero", func() {
		s := domain.Stats{ByStatus: map[string]int{"pendente": 4}}
		Expect(s.Count(domain.StatusPending)).To(Equal(4))
		Expect(s.Count(domain.StatusApplied)).To(Equal(0))
	})

	It("reads the new count from either scraper response", func() {
		var all, one domain.ScrapeResult
		Expect(json.Unmarshal([]byte(`{"message":"Coleta completa","total_novas":3}`), &all)).To(Succeed())
		Expect(json.Unmarshal([]byte(`{"message":"ok","novas":2,"total_coletadas":5}`), &one)).To(Succeed())
		Expect(all.NewCount()).To(Equal(3))
		Expect(one.NewCount()).To(Equal(2))
		Expect(one.Collected).To(Equal(5))
	})
})
