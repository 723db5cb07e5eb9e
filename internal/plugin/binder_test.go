package plugin_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/filescan/internal/options"
	"github.com/smykla-skalski/filescan/internal/plugin"
	pluginapi "github.com/smykla-skalski/filescan/pkg/plugin"
)

var _ = Describe("Bind", func() {
	var supplied *options.Table

	BeforeEach(func() {
		supplied = options.New()
	})

	It("should not use a plugin when none of its options were supplied", func() {
		Expect(supplied.Set("--other", "x")).To(Succeed())

		used, bound := plugin.Bind(descriptor("p", "alpha", "beta"), supplied)

		Expect(used).To(BeFalse())
		Expect(bound).To(BeEmpty())
	})

	It("should bind supplied options in descriptor order", func() {
		Expect(supplied.Set("--beta", "2")).To(Succeed())
		Expect(supplied.Set("--alpha", "1")).To(Succeed())

		used, bound := plugin.Bind(descriptor("p", "alpha", "beta", "gamma"), supplied)

		Expect(used).To(BeTrue())
		Expect(bound).To(Equal([]pluginapi.BoundOption{
			{Name: "alpha", Value: "1"},
			{Name: "beta", Value: "2"},
		}))
	})

	It("should bind options supplied without a value", func() {
		Expect(supplied.Set("--verbose", "")).To(Succeed())

		desc := pluginapi.Descriptor{Options: []pluginapi.OptionSpec{{Name: "verbose"}}}
		used, bound := plugin.Bind(desc, supplied)

		Expect(used).To(BeTrue())
		Expect(bound).To(Equal([]pluginapi.BoundOption{{Name: "verbose", Value: ""}}))
	})

	It("should only match the long option form", func() {
		Expect(supplied.Set("alpha", "1")).To(Succeed())

		used, _ := plugin.Bind(descriptor("p", "alpha"), supplied)

		Expect(used).To(BeFalse())
	})

	It("should never forward options a plugin did not declare", func() {
		Expect(supplied.Set("--shared", "s")).To(Succeed())
		Expect(supplied.Set("--only-a", "a")).To(Succeed())
		Expect(supplied.Set("--only-b", "b")).To(Succeed())

		descA := descriptor("a", "shared", "only-a")
		descB := descriptor("b", "only-b", "shared")

		_, boundA := plugin.Bind(descA, supplied)
		_, boundB := plugin.Bind(descB, supplied)

		for _, opt := range boundA {
			_, declared := descA.Lookup(opt.Name)
			Expect(declared).To(BeTrue(), "plugin a received %q", opt.Name)
		}

		for _, opt := range boundB {
			_, declared := descB.Lookup(opt.Name)
			Expect(declared).To(BeTrue(), "plugin b received %q", opt.Name)
		}

		Expect(boundA).To(Equal([]pluginapi.BoundOption{
			{Name: "shared", Value: "s"},
			{Name: "only-a", Value: "a"},
		}))
		Expect(boundB).To(Equal([]pluginapi.BoundOption{
			{Name: "only-b", Value: "b"},
			{Name: "shared", Value: "s"},
		}))
	})
})
