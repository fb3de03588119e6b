//go:build unit

package envfile_test

import (
	"os"
	"path/filepath"

	"github.com/animalet/tramuntana/pkg/envfile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Load", func() {
	var tempDir string

	writeFile := func(name, content string) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "envfile_test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	Context("schema validation", func() {
		It("should fail with MissingVariableError naming every absent variable", func() {
			base := writeFile("base.env", "A=1\n")

			_, err := envfile.Load(base, "", envfile.Schema{"A", "B", "C"}, true)
			Expect(err).To(HaveOccurred())

			var missing *envfile.MissingVariableError
			Expect(err).To(BeAssignableToTypeOf(missing))
			missing = err.(*envfile.MissingVariableError)
			Expect(missing.Names).To(Equal([]string{"B", "C"}))
			Expect(missing.Error()).To(ContainSubstring("B"))
			Expect(missing.Error()).To(ContainSubstring("C"))
		})

		It("should fail with UnexpectedVariableError naming every undeclared variable", func() {
			base := writeFile("base.env", "A=1\nC=3\nD=4\n")

			_, err := envfile.Load(base, "", envfile.Schema{"A"}, true)
			Expect(err).To(HaveOccurred())

			var unexpected *envfile.UnexpectedVariableError
			Expect(err).To(BeAssignableToTypeOf(unexpected))
			unexpected = err.(*envfile.UnexpectedVariableError)
			Expect(unexpected.Names).To(Equal([]string{"C", "D"}))
		})

		It("should succeed when the loaded set exactly matches the schema", func() {
			base := writeFile("base.env", "A=1\nB=2\n")

			raw, err := envfile.Load(base, "", envfile.Schema{"A", "B"}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(Equal(envfile.RawSet{"A": "1", "B": "2"}))
		})
	})

	Context("deployment overrides", func() {
		It("should let the deployment file replace base values key by key", func() {
			base := writeFile("base.env", "A=1\nB=2\n")
			override := writeFile("production.env", "B=override\n")

			raw, err := envfile.Load(base, override, envfile.Schema{"A", "B"}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw["A"]).To(Equal("1"))
			Expect(raw["B"]).To(Equal("override"))
		})

		It("should treat a missing deployment file as a no-op", func() {
			base := writeFile("base.env", "A=1\n")

			raw, err := envfile.Load(base, filepath.Join(tempDir, "absent.env"), envfile.Schema{"A"}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(HaveLen(1))
		})

		It("should still validate variables introduced by the deployment file", func() {
			base := writeFile("base.env", "A=1\n")
			override := writeFile("test.env", "ROGUE=x\n")

			_, err := envfile.Load(base, override, envfile.Schema{"A"}, true)
			var unexpected *envfile.UnexpectedVariableError
			Expect(err).To(BeAssignableToTypeOf(unexpected))
		})
	})

	Context("base file problems", func() {
		It("should fail when the base file does not exist", func() {
			_, err := envfile.Load(filepath.Join(tempDir, "nope.env"), "", envfile.Schema{}, true)
			Expect(err).To(HaveOccurred())
		})
	})
})
