//go:build unit

package envfile_test

import (
	"github.com/animalet/tramuntana/pkg/envfile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CoerceValue", func() {
	It("should coerce booleans case-insensitively", func() {
		Expect(envfile.CoerceValue("true")).To(Equal(true))
		Expect(envfile.CoerceValue("TRUE")).To(Equal(true))
		Expect(envfile.CoerceValue("FALSE")).To(Equal(false))
		Expect(envfile.CoerceValue("False")).To(Equal(false))
	})

	It("should coerce complete numeric literals", func() {
		Expect(envfile.CoerceValue("42")).To(Equal(42))
		Expect(envfile.CoerceValue("-7")).To(Equal(-7))
		Expect(envfile.CoerceValue("3.5")).To(Equal(3.5))
	})

	It("should not coerce partial numeric strings", func() {
		Expect(envfile.CoerceValue("42nd")).To(Equal("42nd"))
		Expect(envfile.CoerceValue("v1.2")).To(Equal("v1.2"))
		Expect(envfile.CoerceValue("1.2.3")).To(Equal("1.2.3"))
	})

	It("should split comma-separated values into trimmed lists", func() {
		Expect(envfile.CoerceValue("a,b,c")).To(Equal([]string{"a", "b", "c"}))
		Expect(envfile.CoerceValue("a , b ,c")).To(Equal([]string{"a", "b", "c"}))
	})

	It("should leave values with structure markers as strings", func() {
		Expect(envfile.CoerceValue(`{"a":1,"b":2}`)).To(Equal(`{"a":1,"b":2}`))
		Expect(envfile.CoerceValue("[a,b]")).To(Equal("[a,b]"))
	})

	It("should pass plain strings through unchanged", func() {
		Expect(envfile.CoerceValue("hello")).To(Equal("hello"))
	})

	It("should be idempotent for every input shape", func() {
		inputs := []string{"true", "FALSE", "42", "3.5", "a,b,c", "hello", "[a,b]"}
		for _, in := range inputs {
			once := envfile.CoerceValue(in)
			Expect(envfile.CoerceValue(once)).To(Equal(once))
		}
	})
})

var _ = Describe("Coerce", func() {
	It("should coerce every entry of the set", func() {
		typed := envfile.Coerce(envfile.RawSet{
			"DEBUG":  "true",
			"PORT":   "3000",
			"ADMINS": "ana,pau",
			"NAME":   "tramuntana",
		})

		Expect(typed["DEBUG"]).To(Equal(true))
		Expect(typed["PORT"]).To(Equal(3000))
		Expect(typed["ADMINS"]).To(Equal([]string{"ana", "pau"}))
		Expect(typed["NAME"]).To(Equal("tramuntana"))
	})
})
