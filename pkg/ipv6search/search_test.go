package ipv6search_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/filescan/pkg/ipv6search"
	"github.com/smykla-skalski/filescan/pkg/plugin"
)

var _ = Describe("Searcher", func() {
	var (
		searcher *ipv6search.Searcher
		dir      string
	)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

		return path
	}

	addr := func(v string) []plugin.BoundOption {
		return []plugin.BoundOption{{Name: ipv6search.OptionName, Value: v}}
	}

	BeforeEach(func() {
		searcher = ipv6search.New(nil)
		dir = GinkgoT().TempDir()
	})

	Describe("Describe", func() {
		It("should declare a single option taking a value", func() {
			desc, err := searcher.Describe()
			Expect(err).NotTo(HaveOccurred())
			Expect(desc.Purpose).To(Equal(ipv6search.Purpose))
			Expect(desc.Options).To(HaveLen(1))
			Expect(desc.Options[0].Name).To(Equal("ipv6-addr"))
			Expect(desc.Options[0].TakesValue).To(BeTrue())
		})
	})

	Describe("Evaluate", func() {
		It("should match a file containing the address", func() {
			path := write("hosts", "127.0.0.1 localhost\n2001:db8::1 server\n")

			Expect(searcher.Evaluate(path, addr("2001:db8::1")).IsMatch()).To(BeTrue())
		})

		It("should not match a file without the address", func() {
			path := write("hosts", "127.0.0.1 localhost\n2001:db8::2 server\n")

			v := searcher.Evaluate(path, addr("2001:db8::1"))
			Expect(v.IsMatch()).To(BeFalse())
			Expect(v.IsError()).To(BeFalse())
		})

		DescribeTable("should find the address between separators",
			func(line string) {
				path := write("data", "prefix\n"+line+"\n")

				Expect(searcher.Evaluate(path, addr("2001:db8::1")).IsMatch()).To(BeTrue())
			},
			Entry("brackets", "listen [2001:db8::1]:443"),
			Entry("quotes", `addr="2001:db8::1"`),
			Entry("single quotes", "addr='2001:db8::1'"),
			Entry("comma list", "a,2001:db8::1,b"),
			Entry("semicolon", "x;2001:db8::1;"),
			Entry("tab", "\t2001:db8::1\t"),
			Entry("pipe", "a|2001:db8::1|b"),
			Entry("angle brackets", "<2001:db8::1>"),
			Entry("braces", "{2001:db8::1}"),
			Entry("backslash", `a\2001:db8::1\b`),
			Entry("CRLF line ending", "2001:db8::1\r"),
		)

		DescribeTable("should compare addresses textually",
			func(content string) {
				path := write("data", content)

				Expect(searcher.Evaluate(path, addr("2001:db8::1")).IsMatch()).To(BeFalse())
			},
			Entry("expanded form", "2001:0db8:0000:0000:0000:0000:0000:0001\n"),
			Entry("upper case", "2001:DB8::1\n"),
			Entry("longer token", "2001:db8::10\n"),
			Entry("joined with equals", "addr=2001:db8::1\n"),
		)

		It("should not match inside a prefix length", func() {
			path := write("routes", "2001:db8::1/64\n")

			Expect(searcher.Evaluate(path, addr("2001:db8::1")).IsMatch()).To(BeFalse())
		})

		It("should match an address without a trailing newline", func() {
			path := write("data", "::1")

			Expect(searcher.Evaluate(path, addr("::1")).IsMatch()).To(BeTrue())
		})

		DescribeTable("should reject options it does not expect",
			func(opts []plugin.BoundOption) {
				v := searcher.Evaluate(write("data", "::1\n"), opts)

				Expect(v.IsError()).To(BeTrue())
				Expect(v.Code).To(Equal(plugin.CodeInvalidOptions))
			},
			Entry("none", nil),
			Entry("wrong name", []plugin.BoundOption{{Name: "ipv4-addr", Value: "::1"}}),
			Entry("too many", []plugin.BoundOption{
				{Name: "ipv6-addr", Value: "::1"},
				{Name: "ipv6-addr", Value: "::2"},
			}),
		)

		DescribeTable("should fail for an invalid address",
			func(value string) {
				v := searcher.Evaluate(write("data", value+"\n"), addr(value))

				Expect(v.IsError()).To(BeTrue())
				Expect(v.Code).To(Equal(plugin.CodeFailure))
				Expect(v.Message).To(ContainSubstring("invalid IPv6 address"))
			},
			Entry("garbage", "not-an-address"),
			Entry("empty", ""),
			Entry("IPv4", "192.0.2.1"),
			Entry("zone", "fe80::1%eth0"),
			Entry("too many groups", "1:2:3:4:5:6:7:8:9"),
		)

		It("should fail for an unreadable file", func() {
			v := searcher.Evaluate(filepath.Join(dir, "missing"), addr("::1"))

			Expect(v.IsError()).To(BeTrue())
			Expect(v.Code).To(Equal(plugin.CodeFailure))
		})

		It("should fail for a line longer than the limit", func() {
			path := write("long", strings.Repeat("a", ipv6search.MaxLineLength+1)+"\n::1\n")

			Expect(searcher.Evaluate(path, addr("::1")).IsError()).To(BeTrue())
		})
	})

	Describe("Tokens", func() {
		It("should drop empty tokens", func() {
			Expect(ipv6search.Tokens(" [a]  (b),,c ")).To(Equal([]string{"a", "b", "c"}))
		})
	})

	Describe("IsValidIPv6", func() {
		DescribeTable("classifies literals",
			func(s string, want bool) {
				Expect(ipv6search.IsValidIPv6(s)).To(Equal(want))
			},
			Entry("loopback", "::1", true),
			Entry("documentation", "2001:db8::1", true),
			Entry("IPv4-mapped", "::ffff:192.0.2.1", true),
			Entry("IPv4", "192.0.2.1", false),
			Entry("zone", "fe80::1%eth0", false),
			Entry("brackets", "[::1]", false),
		)
	})
})
