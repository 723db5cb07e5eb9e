package plugin_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/filescan/pkg/plugin"
)

type stubPlugin struct {
	desc    plugin.Descriptor
	verdict plugin.Verdict
	panics  bool
	gotPath string
	gotOpts []plugin.BoundOption
}

func (s *stubPlugin) Describe() (plugin.Descriptor, error) {
	return s.desc, nil
}

func (s *stubPlugin) Evaluate(path string, opts []plugin.BoundOption) plugin.Verdict {
	if s.panics {
		panic("boom")
	}

	s.gotPath = path
	s.gotOpts = opts

	return s.verdict
}

var _ = Describe("API", func() {
	Describe("Descriptor", func() {
		It("should look up declared options by name", func() {
			desc := plugin.Descriptor{
				Purpose: "test",
				Options: []plugin.OptionSpec{
					{Name: "alpha", TakesValue: true},
					{Name: "beta"},
				},
			}

			spec, ok := desc.Lookup("beta")
			Expect(ok).To(BeTrue())
			Expect(spec.TakesValue).To(BeFalse())

			_, ok = desc.Lookup("gamma")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Verdict", func() {
		It("should build match and no-match verdicts", func() {
			Expect(plugin.Match().IsMatch()).To(BeTrue())
			Expect(plugin.NoMatch().IsMatch()).To(BeFalse())
			Expect(plugin.FromBool(true)).To(Equal(plugin.Match()))
			Expect(plugin.FromBool(false)).To(Equal(plugin.NoMatch()))
		})

		It("should carry error codes", func() {
			v := plugin.Errorf(plugin.CodeInvalidOptions, "bad option %q", "x")

			Expect(v.IsError()).To(BeTrue())
			Expect(v.IsMatch()).To(BeFalse())
			Expect(v.Code).To(Equal(plugin.CodeInvalidOptions))
			Expect(v.String()).To(Equal(`error(2): bad option "x"`))
		})

		It("should encode outcomes as names", func() {
			data, err := json.Marshal(plugin.Errorf(1, "nope"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"outcome":"error"`))

			var v plugin.Verdict
			Expect(json.Unmarshal([]byte(`{"outcome":"no_match"}`), &v)).To(Succeed())
			Expect(v.Outcome).To(Equal(plugin.OutcomeNoMatch))
		})

		It("should treat the zero outcome as invalid", func() {
			Expect(plugin.Verdict{}.Outcome.IsAOutcome()).To(BeFalse())
			Expect(plugin.NoMatch().Outcome.IsAOutcome()).To(BeTrue())
		})

		It("should reject unknown outcomes", func() {
			var v plugin.Verdict
			err := json.Unmarshal([]byte(`{"outcome":"maybe"}`), &v)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("does not belong to Outcome values"))
		})
	})

	Describe("Serve", func() {
		var stub *stubPlugin

		BeforeEach(func() {
			stub = &stubPlugin{
				desc: plugin.Descriptor{
					Purpose: "stub",
					Author:  "tests",
					Options: []plugin.OptionSpec{{Name: "flag", TakesValue: true}},
				},
				verdict: plugin.Match(),
			}
		})

		It("should print the descriptor", func() {
			var out bytes.Buffer

			Expect(plugin.Serve(stub, []string{plugin.DescribeFlag}, nil, &out)).To(Succeed())

			var desc plugin.Descriptor
			Expect(json.Unmarshal(out.Bytes(), &desc)).To(Succeed())
			Expect(desc).To(Equal(stub.desc))
		})

		It("should evaluate a request from stdin", func() {
			var out bytes.Buffer

			in := strings.NewReader(`{"path":"/tmp/a","options":[{"name":"flag","value":"v"}]}`)

			Expect(plugin.Serve(stub, []string{plugin.EvaluateFlag}, in, &out)).To(Succeed())
			Expect(stub.gotPath).To(Equal("/tmp/a"))
			Expect(stub.gotOpts).To(Equal([]plugin.BoundOption{{Name: "flag", Value: "v"}}))

			var v plugin.Verdict
			Expect(json.Unmarshal(out.Bytes(), &v)).To(Succeed())
			Expect(v.IsMatch()).To(BeTrue())
		})

		It("should report a panicking plugin as an error verdict", func() {
			stub.panics = true

			var out bytes.Buffer

			in := strings.NewReader(`{"path":"/tmp/a"}`)

			Expect(plugin.Serve(stub, []string{plugin.EvaluateFlag}, in, &out)).To(Succeed())

			var v plugin.Verdict
			Expect(json.Unmarshal(out.Bytes(), &v)).To(Succeed())
			Expect(v.IsError()).To(BeTrue())
			Expect(v.Code).To(Equal(plugin.CodeHostFailure))
		})

		It("should fail on malformed requests", func() {
			err := plugin.Serve(stub, []string{plugin.EvaluateFlag}, strings.NewReader("{"), &bytes.Buffer{})

			Expect(err).To(HaveOccurred())
		})

		It("should fail without a protocol flag", func() {
			Expect(plugin.Serve(stub, nil, nil, &bytes.Buffer{})).To(MatchError(plugin.ErrUnknownCommand))
			Expect(plugin.Serve(stub, []string{"--info"}, nil, &bytes.Buffer{})).
				To(MatchError(ContainSubstring("--info")))
		})
	})
})
