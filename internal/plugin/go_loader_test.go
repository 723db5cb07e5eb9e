package plugin_test

import (
	"context"
	goplugin "plugin"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/filescan/internal/plugin"
	pluginapi "github.com/smykla-skalski/filescan/pkg/plugin"
)

// stubPlugin implements the public plugin.Plugin interface for testing.
type stubPlugin struct {
	desc         pluginapi.Descriptor
	describeErr  error
	evaluateFunc func(string, []pluginapi.BoundOption) pluginapi.Verdict
}

func (s *stubPlugin) Describe() (pluginapi.Descriptor, error) {
	return s.desc, s.describeErr
}

func (s *stubPlugin) Evaluate(path string, opts []pluginapi.BoundOption) pluginapi.Verdict {
	if s.evaluateFunc != nil {
		return s.evaluateFunc(path, opts)
	}

	return pluginapi.NoMatch()
}

var _ = Describe("GoLoader", func() {
	const path = "/plugins/test.so"

	var (
		mod    *trackingModule
		loader *plugin.GoLoader
	)

	BeforeEach(func() {
		mod = newTrackingModule(descriptor("test", "alpha"), nil)
		loader = plugin.NewGoLoaderWithOpener(moduleSet{path: mod}.open)
	})

	Describe("Load", func() {
		It("should return error when path is empty", func() {
			_, err := loader.Load("")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("path is required"))
		})

		It("should return error when the module cannot be opened", func() {
			_, err := loader.Load("/plugins/missing.so")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to open Go plugin"))
		})

		It("should return error when .so file does not exist", func() {
			_, err := plugin.NewGoLoader().Load("/nonexistent/plugin.so")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to open Go plugin"))
		})

		It("should resolve both entry points and keep the module open", func() {
			p, err := loader.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Descriptor()).To(Equal(descriptor("test", "alpha")))
			Expect(mod.closed).To(BeZero())
		})

		It("should accept entry points exported as function variables", func() {
			describe := func() (pluginapi.Descriptor, error) { return descriptor("vars"), nil }
			evaluate := func(string, []pluginapi.BoundOption) pluginapi.Verdict { return pluginapi.Match() }

			mod.symbols = map[string]goplugin.Symbol{
				plugin.DescribeSymbol: &describe,
				plugin.EvaluateSymbol: &evaluate,
			}

			p, err := loader.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Descriptor().Purpose).To(Equal("vars"))
			Expect(p.Evaluate(context.Background(), "/f", nil).IsMatch()).To(BeTrue())
		})

		DescribeTable("should release the module when validation fails",
			func(mutate func(*trackingModule), target error) {
				mutate(mod)

				_, err := loader.Load(path)

				Expect(errors.Is(err, target)).To(BeTrue(), "got %v", err)
				Expect(mod.closed).To(Equal(1))
			},
			Entry("missing Describe", func(m *trackingModule) {
				delete(m.symbols, plugin.DescribeSymbol)
			}, plugin.ErrMissingSymbol),
			Entry("missing Evaluate", func(m *trackingModule) {
				delete(m.symbols, plugin.EvaluateSymbol)
			}, plugin.ErrMissingSymbol),
			Entry("Describe with the wrong type", func(m *trackingModule) {
				m.symbols[plugin.DescribeSymbol] = func() string { return "nope" }
			}, plugin.ErrMissingSymbol),
			Entry("Evaluate with the wrong type", func(m *trackingModule) {
				m.symbols[plugin.EvaluateSymbol] = func(string) bool { return true }
			}, plugin.ErrMissingSymbol),
			Entry("Describe failing", func(m *trackingModule) {
				m.symbols[plugin.DescribeSymbol] = func() (pluginapi.Descriptor, error) {
					return pluginapi.Descriptor{}, errors.New("not configured")
				}
			}, plugin.ErrDescribeFailed),
			Entry("Describe panicking", func(m *trackingModule) {
				m.symbols[plugin.DescribeSymbol] = func() (pluginapi.Descriptor, error) {
					panic("describe exploded")
				}
			}, plugin.ErrDescribeFailed),
		)

		It("should report release failures together with the load error", func() {
			delete(mod.symbols, plugin.EvaluateSymbol)
			mod.closeErr = errors.New("dlclose failed")

			_, err := loader.Load(path)

			Expect(err).To(MatchError(plugin.ErrMissingSymbol))
			Expect(mod.closed).To(Equal(1))
		})
	})

	Describe("Close", func() {
		It("should not return error", func() {
			Expect(loader.Close()).To(Succeed())
		})
	})

	Describe("goPluginAdapter", func() {
		var (
			stub    *stubPlugin
			adapter plugin.Plugin
			ctx     context.Context
		)

		BeforeEach(func() {
			stub = &stubPlugin{desc: descriptor("stub", "alpha")}

			var err error

			adapter, err = plugin.NewInProcess(stub)
			Expect(err).NotTo(HaveOccurred())

			ctx = context.Background()
		})

		It("should cache the descriptor", func() {
			stub.desc = descriptor("changed")

			Expect(adapter.Descriptor().Purpose).To(Equal("stub"))
		})

		It("should fail construction when Describe fails", func() {
			_, err := plugin.NewInProcess(&stubPlugin{describeErr: errors.New("nope")})

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, plugin.ErrDescribeFailed)).To(BeTrue())
		})

		It("should pass path and options to the plugin", func() {
			var (
				gotPath string
				gotOpts []pluginapi.BoundOption
			)

			stub.evaluateFunc = func(path string, opts []pluginapi.BoundOption) pluginapi.Verdict {
				gotPath = path
				gotOpts = opts

				return pluginapi.Match()
			}

			opts := []pluginapi.BoundOption{{Name: "alpha", Value: "1"}}

			Expect(adapter.Evaluate(ctx, "/data/a", opts).IsMatch()).To(BeTrue())
			Expect(gotPath).To(Equal("/data/a"))
			Expect(gotOpts).To(Equal(opts))
		})

		It("should not let the plugin modify the caller's options", func() {
			stub.evaluateFunc = func(_ string, opts []pluginapi.BoundOption) pluginapi.Verdict {
				opts[0].Value = "tampered"

				return pluginapi.NoMatch()
			}

			opts := []pluginapi.BoundOption{{Name: "alpha", Value: "1"}}
			adapter.Evaluate(ctx, "/data/a", opts)

			Expect(opts[0].Value).To(Equal("1"))
		})

		It("should recover from panics", func() {
			stub.evaluateFunc = func(string, []pluginapi.BoundOption) pluginapi.Verdict {
				panic("open /home/user/secret.txt: permission denied")
			}

			v := adapter.Evaluate(ctx, "/data/a", nil)

			Expect(v.IsError()).To(BeTrue())
			Expect(v.Code).To(Equal(pluginapi.CodeHostFailure))
			Expect(v.Message).To(ContainSubstring("plugin panicked"))
			Expect(v.Message).NotTo(ContainSubstring("/home/user"))
		})

		It("should reject verdicts with an undefined outcome", func() {
			stub.evaluateFunc = func(string, []pluginapi.BoundOption) pluginapi.Verdict {
				return pluginapi.Verdict{}
			}

			v := adapter.Evaluate(ctx, "/data/a", nil)

			Expect(v.IsError()).To(BeTrue())
			Expect(v.Message).To(ContainSubstring("invalid outcome"))
		})

		It("should not call the plugin with a cancelled context", func() {
			called := false
			stub.evaluateFunc = func(string, []pluginapi.BoundOption) pluginapi.Verdict {
				called = true

				return pluginapi.Match()
			}

			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			Expect(adapter.Evaluate(cancelled, "/data/a", nil).IsError()).To(BeTrue())
			Expect(called).To(BeFalse())
		})

		It("should close without a module", func() {
			Expect(adapter.Close()).To(Succeed())
		})
	})
})
