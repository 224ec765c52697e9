package bootstrap_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"vagas-dashboard/internal/apiclient"
	"vagas-dashboard/internal/bootstrap"
)

func httpErr(status int) error {
	return &apiclient.HTTPError{Method: "GET", Path: "/x", StatusCode: status, Detail: "boom"}
}

var _ = Describe("Classify", func() {
	DescribeTable("maps errors to a closed kind",
		func(err error, want bootstrap.ErrorKind) {
			Expect(bootstrap.Classify(err)).To(Equal(want))
		},
		Entry("network", &apiclient.NetworkError{Err: context.DeadlineExceeded}, bootstrap.KindNetwork),
		Entry("wrapped network", fmt.Errorf("step: %w", &apiclient.NetworkError{Err: errors.New("refused")}), bootstrap.KindNetwork),
		Entry("502", httpErr(502), bootstrap.KindUnavailable),
		Entry("503", httpErr(503), bootstrap.KindUnavailable),
		Entry("500", httpErr(500), bootstrap.KindServerError),
		Entry("404", httpErr(404), bootstrap.KindHTTPStatus),
		Entry("plain", errors.New("decode"), bootstrap.KindUnknown),
	)
})

var _ = Describe("Suggest", func() {
	DescribeTable("picks the hint by step and kind",
		func(step bootstrap.StepID, kind bootstrap.ErrorKind, code string) {
			Expect(bootstrap.Suggest(step, kind, "msg").Code).To(Equal(code))
		},
		Entry("network on any step", bootstrap.StepStats, bootstrap.KindNetwork, "NETWORK_ERROR"),
		Entry("api cold start", bootstrap.StepAPI, bootstrap.KindUnavailable, "BACKEND_SLEEPING"),
		Entry("api other status", bootstrap.StepAPI, bootstrap.KindHTTPStatus, "API_UNREACHABLE"),
		Entry("api server error", bootstrap.StepAPI, bootstrap.KindServerError, "API_UNREACHABLE"),
		Entry("database server error", bootstrap.StepDatabase, bootstrap.KindServerError, "DATABASE_ERROR"),
		Entry("database unavailable", bootstrap.StepDatabase, bootstrap.KindUnavailable, "DATABASE_QUERY_FAILED"),
		Entry("stats anything", bootstrap.StepStats, bootstrap.KindServerError, "STATS_ENDPOINT_ERROR"),
		Entry("unknown step", bootstrap.StepID("cache"), bootstrap.KindHTTPStatus, "UNKNOWN_ERROR"),
	)

	It("carries the message for unknown errors", func() {
		h := bootstrap.Suggest("cache", bootstrap.KindUnknown, "it broke")
		Expect(h.String()).To(Equal("UNKNOWN_ERROR: it broke"))
	})
})
