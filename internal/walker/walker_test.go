package walker_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/filescan/internal/walker"
)

var _ = Describe("Walker", func() {
	var (
		ctx  context.Context
		root string
	)

	write := func(rel, content string) string {
		path := filepath.Join(root, rel)
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())

		return path
	}

	collect := func(w *walker.Walker) []string {
		var rels []string

		for path := range w.Files(ctx) {
			rel, err := filepath.Rel(root, path)
			Expect(err).NotTo(HaveOccurred())

			rels = append(rels, filepath.ToSlash(rel))
		}

		return rels
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error

		root, err = filepath.EvalSymlinks(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		write("b.txt", "bb")
		write("a.txt", "a")
		write("sub/c.log", "ccc")
		write("sub/deep/d.txt", "dddd")
	})

	Describe("New", func() {
		It("should reject a missing root", func() {
			_, err := walker.New(filepath.Join(root, "missing"))

			Expect(err).To(HaveOccurred())
		})

		It("should reject a file as root", func() {
			_, err := walker.New(filepath.Join(root, "a.txt"))

			Expect(err).To(MatchError(walker.ErrNotDirectory))
		})

		It("should reject malformed patterns", func() {
			_, err := walker.New(root, walker.WithInclude("[unclosed"))

			Expect(err).To(MatchError(walker.ErrInvalidPattern))
		})
	})

	Describe("Files", func() {
		It("should yield every regular file exactly once in lexical order", func() {
			w, err := walker.New(root)
			Expect(err).NotTo(HaveOccurred())

			Expect(collect(w)).To(Equal([]string{"a.txt", "b.txt", "sub/c.log", "sub/deep/d.txt"}))
			Expect(w.Stats().Files).To(Equal(4))
			Expect(w.Stats().Bytes).To(Equal(int64(10)))
		})

		It("should apply include patterns to files", func() {
			w, err := walker.New(root, walker.WithInclude("**/*.txt"))
			Expect(err).NotTo(HaveOccurred())

			Expect(collect(w)).To(Equal([]string{"a.txt", "b.txt", "sub/deep/d.txt"}))
			Expect(w.Stats().Excluded).To(Equal(1))
		})

		It("should prune excluded directories", func() {
			w, err := walker.New(root, walker.WithExclude("sub/deep"))
			Expect(err).NotTo(HaveOccurred())

			Expect(collect(w)).To(Equal([]string{"a.txt", "b.txt", "sub/c.log"}))
		})

		It("should follow symlinks to files", func() {
			Expect(os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "link.txt"))).To(Succeed())

			w, err := walker.New(root)
			Expect(err).NotTo(HaveOccurred())

			Expect(collect(w)).To(ContainElement("link.txt"))
		})

		It("should skip dangling symlinks and keep going", func() {
			Expect(os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "aa-dangling"))).To(Succeed())

			w, err := walker.New(root)
			Expect(err).NotTo(HaveOccurred())

			Expect(collect(w)).To(HaveLen(4))
			Expect(w.Stats().Errors).To(Equal(1))
		})

		Context("with a symlinked directory", func() {
			BeforeEach(func() {
				Expect(os.Symlink(filepath.Join(root, "sub"), filepath.Join(root, "zlink"))).To(Succeed())
			})

			It("should not descend by default", func() {
				w, err := walker.New(root)
				Expect(err).NotTo(HaveOccurred())

				Expect(collect(w)).To(HaveLen(4))
			})

			It("should visit each directory once when following symlinks", func() {
				w, err := walker.New(root, walker.WithFollowSymlinks(true))
				Expect(err).NotTo(HaveOccurred())

				Expect(collect(w)).To(HaveLen(4))
			})

			It("should terminate on symlink cycles", func() {
				Expect(os.Symlink(root, filepath.Join(root, "sub", "loop"))).To(Succeed())

				w, err := walker.New(root, walker.WithFollowSymlinks(true))
				Expect(err).NotTo(HaveOccurred())

				Expect(collect(w)).To(HaveLen(4))
			})
		})

		It("should stop when the consumer stops", func() {
			w, err := walker.New(root)
			Expect(err).NotTo(HaveOccurred())

			first := slices.Collect(func(yield func(string) bool) {
				for path := range w.Files(ctx) {
					yield(path)

					return
				}
			})

			Expect(first).To(HaveLen(1))
		})

		It("should stop when the context is cancelled", func() {
			w, err := walker.New(root)
			Expect(err).NotTo(HaveOccurred())

			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			Expect(slices.Collect(w.Files(cancelled))).To(BeEmpty())
		})
	})
})
