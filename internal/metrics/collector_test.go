package metrics

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/smykla-skalski/filescan/internal/engine"
	"github.com/smykla-skalski/filescan/internal/walker"
	pluginapi "github.com/smykla-skalski/filescan/pkg/plugin"
)

var _ = Describe("Collector", func() {
	var c *Collector

	BeforeEach(func() {
		c = NewCollector()
	})

	It("counts verdicts by plugin and outcome", func() {
		c.ObserveVerdict("ipv6addr.plugin", pluginapi.Match())
		c.ObserveVerdict("ipv6addr.plugin", pluginapi.Match())
		c.ObserveVerdict("ipv6addr.plugin", pluginapi.NoMatch())
		c.ObserveVerdict("other.plugin", pluginapi.Errorf(pluginapi.CodeFailure, "boom"))

		Expect(testutil.CollectAndCount(c.verdicts)).To(Equal(3))
		Expect(testutil.ToFloat64(c.verdicts.WithLabelValues("ipv6addr.plugin", "match"))).To(Equal(2.0))
		Expect(testutil.ToFloat64(c.verdicts.WithLabelValues("other.plugin", "error"))).To(Equal(1.0))
	})

	It("records scan totals", func() {
		c.ObserveScan(
			engine.Summary{Files: 5, Matched: 2, PluginErrors: 1, Elapsed: 1500 * time.Millisecond},
			walker.Stats{Files: 5, Bytes: 4096, Excluded: 3, Errors: 1},
			2,
		)

		Expect(testutil.ToFloat64(c.files)).To(Equal(5.0))
		Expect(testutil.ToFloat64(c.matched)).To(Equal(2.0))
		Expect(testutil.ToFloat64(c.bytes)).To(Equal(4096.0))
		Expect(testutil.ToFloat64(c.excluded)).To(Equal(3.0))
		Expect(testutil.ToFloat64(c.walkErrors)).To(Equal(1.0))
		Expect(testutil.ToFloat64(c.plugins)).To(Equal(2.0))
		Expect(testutil.ToFloat64(c.duration)).To(Equal(1.5))
		Expect(testutil.ToFloat64(c.lastRun)).To(BeNumerically(">", 0))
	})

	It("writes the text format", func() {
		c.ObserveVerdict("ipv6addr.plugin", pluginapi.Match())
		c.ObserveScan(engine.Summary{Files: 1, Matched: 1}, walker.Stats{Files: 1}, 1)

		path := filepath.Join(GinkgoT().TempDir(), "filescan.prom")
		Expect(c.WriteTextfile(path)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("filescan_files_scanned_total 1"))
		Expect(string(data)).To(ContainSubstring(
			`filescan_plugin_verdicts_total{outcome="match",plugin="ipv6addr.plugin"} 1`,
		))
	})

	It("fails for an unwritable path", func() {
		path := filepath.Join(GinkgoT().TempDir(), "missing", "filescan.prom")

		Expect(c.WriteTextfile(path)).To(MatchError(ContainSubstring("failed to write metrics")))
	})
})
