//go:build unit

package envfile_test

import (
	"github.com/animalet/tramuntana/pkg/envfile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Expand", func() {
	It("should substitute placeholders against sibling keys", func() {
		raw := envfile.RawSet{
			"WEB_HOST":   "localhost",
			"WEB_PORT":   "3000",
			"PUBLIC_URL": "http://${WEB_HOST}:${WEB_PORT}",
		}

		expanded, err := envfile.Expand(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(expanded["PUBLIC_URL"]).To(Equal("http://localhost:3000"))
	})

	It("should not mutate the input set", func() {
		raw := envfile.RawSet{"A": "${B}", "B": "b"}

		_, err := envfile.Expand(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw["A"]).To(Equal("${B}"))
	})

	It("should resolve chained placeholders through repeated passes", func() {
		raw := envfile.RawSet{
			"A": "${B}",
			"B": "${C}",
			"C": "leaf",
		}

		expanded, err := envfile.Expand(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(expanded["A"]).To(Equal("leaf"))
		Expect(expanded["B"]).To(Equal("leaf"))
	})

	It("should expand references to unknown keys to the empty string", func() {
		raw := envfile.RawSet{"A": "x${NOPE}y"}

		expanded, err := envfile.Expand(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(expanded["A"]).To(Equal("xy"))
	})

	It("should report self references as circular", func() {
		raw := envfile.RawSet{"A": "${A}"}

		_, err := envfile.Expand(raw)
		var circular *envfile.CircularTemplateError
		Expect(err).To(BeAssignableToTypeOf(circular))
		circular = err.(*envfile.CircularTemplateError)
		Expect(circular.Keys).To(ContainElement("A"))
	})

	It("should report mutual references as circular", func() {
		raw := envfile.RawSet{"A": "${B}", "B": "${A}"}

		_, err := envfile.Expand(raw)
		var circular *envfile.CircularTemplateError
		Expect(err).To(BeAssignableToTypeOf(circular))
	})

	It("should leave placeholder-free sets untouched", func() {
		raw := envfile.RawSet{"A": "1", "B": "two"}

		expanded, err := envfile.Expand(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(expanded).To(Equal(raw))
	})
})
