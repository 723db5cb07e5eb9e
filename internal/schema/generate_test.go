package schema_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/filescan/internal/schema"
)

var _ = Describe("Generate", func() {
	var s map[string]any

	BeforeEach(func() {
		data, err := schema.GenerateJSON(true)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(data, &s)).To(Succeed())
	})

	It("sets the $schema URI", func() {
		Expect(s["$schema"]).To(Equal("https://json-schema.org/draft/2020-12/schema"))
	})

	It("identifies the schema by its published URL", func() {
		Expect(s["$id"]).To(Equal(schema.SchemaURL))
		Expect(s["title"]).To(Equal("filescan configuration"))
		Expect(s["description"]).NotTo(BeEmpty())
	})

	It("rejects unknown top-level keys", func() {
		Expect(s["additionalProperties"]).To(BeFalse())
	})

	It("includes top-level properties", func() {
		props, ok := s["properties"].(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(props).To(HaveKey("version"))
		Expect(props).To(HaveKey("plugins"))
		Expect(props).To(HaveKey("scan"))
		Expect(props).To(HaveKey("log"))
	})

	Describe("custom type schemas", func() {
		var defs map[string]any

		BeforeEach(func() {
			var ok bool

			defs, ok = s["$defs"].(map[string]any)
			Expect(ok).To(BeTrue(), "$defs should exist")
		})

		It("defines Duration as string with pattern", func() {
			dur, ok := defs["Duration"].(map[string]any)
			Expect(ok).To(BeTrue(), "Duration def should exist")
			Expect(dur["type"]).To(Equal("string"))
			Expect(dur["pattern"]).NotTo(BeEmpty())
		})

		DescribeTable("enumerated string types",
			func(name string, values ...any) {
				def, ok := defs[name].(map[string]any)
				Expect(ok).To(BeTrue(), "%s def should exist", name)
				Expect(def["type"]).To(Equal("string"))
				Expect(def["enum"]).To(ConsistOf(values...))
			},
			Entry("ScanMode", "ScanMode", "or", "and"),
			Entry("OverflowPolicy", "OverflowPolicy", "fail", "truncate"),
			Entry("PluginType", "PluginType", "go", "exec"),
		)
	})

	Describe("GenerateJSON", func() {
		It("produces compact JSON when indent is false", func() {
			data, err := schema.GenerateJSON(false)
			Expect(err).NotTo(HaveOccurred())

			Expect(bytes.Count(data, []byte("\n"))).To(Equal(1))
		})

		It("produces indented JSON when indent is true", func() {
			data, err := schema.GenerateJSON(true)
			Expect(err).NotTo(HaveOccurred())
			Expect(bytes.Count(data, []byte("\n"))).To(BeNumerically(">", 10))
		})
	})

	It("builds a Taplo directive from the schema URL", func() {
		Expect(schema.SchemaDirective()).To(Equal("#:schema " + schema.SchemaURL))
	})
})
