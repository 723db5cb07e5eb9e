package plugin_test

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/filescan/internal/exec"
	"github.com/smykla-skalski/filescan/internal/plugin"
	pluginapi "github.com/smykla-skalski/filescan/pkg/plugin"
)

// fakeRunner answers --describe with desc and hands --evaluate runs to
// evaluate.
type fakeRunner struct {
	describe func() exec.Result
	evaluate func(cmd exec.Command) exec.Result
	calls    []exec.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd exec.Command) exec.Result {
	f.calls = append(f.calls, cmd)

	if len(cmd.Args) > 0 && cmd.Args[0] == pluginapi.DescribeFlag {
		return f.describe()
	}

	if f.evaluate == nil {
		return exec.Result{ExitCode: 1}
	}

	return f.evaluate(cmd)
}

var _ = Describe("ExecLoader", func() {
	var (
		loader *plugin.ExecLoader
		runner *fakeRunner
		desc   pluginapi.Descriptor
	)

	BeforeEach(func() {
		desc = pluginapi.Descriptor{
			Purpose: "Find a needle",
			Author:  "tests",
			Options: []pluginapi.OptionSpec{{Name: "needle", TakesValue: true}},
		}

		runner = &fakeRunner{
			describe: func() exec.Result {
				out, err := json.Marshal(desc)
				Expect(err).NotTo(HaveOccurred())

				return exec.Result{Stdout: out}
			},
		}
		loader = plugin.NewExecLoader(runner)
	})

	Describe("Load", func() {
		It("fetches the descriptor with --describe", func() {
			p, err := loader.Load("/plugins/needle.plugin")

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Descriptor()).To(Equal(desc))
			Expect(runner.calls).To(Equal([]exec.Command{
				{Name: "/plugins/needle.plugin", Args: []string{pluginapi.DescribeFlag}},
			}))
		})

		It("rejects an empty path", func() {
			_, err := loader.Load("")

			Expect(err).To(MatchError(ContainSubstring("path is required")))
			Expect(runner.calls).To(BeEmpty())
		})

		It("rejects shell metacharacters before running anything", func() {
			_, err := loader.Load("/plugins/plugin;rm -rf")

			Expect(errors.Is(err, plugin.ErrUnsafePath)).To(BeTrue())
			Expect(runner.calls).To(BeEmpty())
		})

		DescribeTable("fails when --describe",
			func(res exec.Result, substr string) {
				runner.describe = func() exec.Result { return res }

				_, err := loader.Load("/plugins/needle.plugin")

				Expect(err).To(MatchError(ContainSubstring(substr)))
			},
			Entry("exits non-zero",
				exec.Result{ExitCode: 2, Stderr: []byte("boom\n")}, "exit code 2: boom"),
			Entry("cannot run",
				exec.Result{ExitCode: -1, Err: errors.New("permission denied")}, "permission denied"),
			Entry("prints invalid JSON",
				exec.Result{Stdout: []byte("not json")}, "failed to parse plugin descriptor JSON"),
		)

		It("marks non-zero --describe exits", func() {
			runner.describe = func() exec.Result { return exec.Result{ExitCode: 1} }

			_, err := loader.Load("/plugins/needle.plugin")

			Expect(errors.Is(err, plugin.ErrPluginDescribeFailed)).To(BeTrue())
		})
	})

	It("closes without error", func() {
		Expect(loader.Close()).To(Succeed())
	})

	Describe("Evaluate", func() {
		var (
			p    plugin.Plugin
			ctx  context.Context
			opts []pluginapi.BoundOption
		)

		BeforeEach(func() {
			var err error

			p, err = loader.Load("/plugins/needle.plugin")
			Expect(err).NotTo(HaveOccurred())

			ctx = context.Background()
			opts = []pluginapi.BoundOption{{Name: "needle", Value: "hay"}}
		})

		It("sends the request on stdin and parses the verdict", func() {
			var got exec.Command

			runner.evaluate = func(cmd exec.Command) exec.Result {
				got = cmd

				return exec.Result{Stdout: []byte(`{"outcome":"match"}`)}
			}

			v := p.Evaluate(ctx, "/data/file.txt", opts)

			Expect(v.IsMatch()).To(BeTrue())
			Expect(got.Name).To(Equal("/plugins/needle.plugin"))
			Expect(got.Args).To(Equal([]string{pluginapi.EvaluateFlag}))

			var req pluginapi.EvaluateRequest
			Expect(json.Unmarshal(got.Stdin, &req)).To(Succeed())
			Expect(req.Path).To(Equal("/data/file.txt"))
			Expect(req.Options).To(Equal(opts))
		})

		It("passes plugin error verdicts through", func() {
			runner.evaluate = func(exec.Command) exec.Result {
				return exec.Result{Stdout: []byte(`{"outcome":"error","code":2,"message":"bad"}`)}
			}

			v := p.Evaluate(ctx, "/data/file.txt", opts)

			Expect(v).To(Equal(pluginapi.Errorf(pluginapi.CodeInvalidOptions, "bad")))
		})

		DescribeTable("turns subprocess failures into error verdicts",
			func(res exec.Result, substr string) {
				runner.evaluate = func(exec.Command) exec.Result { return res }

				v := p.Evaluate(ctx, "/data/file.txt", opts)

				Expect(v.IsError()).To(BeTrue())
				Expect(v.Code).To(Equal(pluginapi.CodeHostFailure))
				Expect(v.Message).To(ContainSubstring(substr))
			},
			Entry("non-zero exit",
				exec.Result{ExitCode: 3, Stderr: []byte("crashed")}, "exit code 3: crashed"),
			Entry("timeout",
				exec.Result{ExitCode: -1, Err: context.DeadlineExceeded}, "deadline exceeded"),
			Entry("oversized output",
				exec.Result{ExitCode: -1, Err: exec.ErrOutputTooLarge}, "output exceeds limit"),
			Entry("malformed output",
				exec.Result{Stdout: []byte("{")}, "failed to parse verdict JSON"),
			Entry("missing outcome",
				exec.Result{Stdout: []byte(`{"message":"hi"}`)}, "invalid outcome"),
		)

		It("closes without error", func() {
			Expect(p.Close()).To(Succeed())
		})
	})
})
