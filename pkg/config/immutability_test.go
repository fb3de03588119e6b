//go:build unit

package config_test

import (
	"github.com/animalet/tramuntana/pkg/config"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Configuration immutability", func() {
	var cfg *config.Config

	BeforeEach(func() {
		var err error
		cfg, err = config.Assemble(fullTypedSet(), config.Options{Environment: config.Development, Silent: true})
		Expect(err).NotTo(HaveOccurred())
		config.Finalize(cfg)
	})

	It("should hand out snapshots that do not share slice storage", func() {
		snap := cfg.Snapshot()
		snap.App.AdminEmails[0] = "mallory@example.com"

		Expect(cfg.App.AdminEmails[0]).To(Equal("ana@example.com"))
	})

	It("should hand out snapshots that do not share map storage", func() {
		snap := cfg.Snapshot()
		snap.Auth.Providers["github"] = true
		snap.Auth.Strategies["github"] = config.Strategy{ClientID: "tampered"}

		Expect(cfg.Auth.Providers["github"]).To(BeFalse())
		Expect(cfg.Auth.Strategies["github"].ClientID).To(Equal("github-id"))
	})

	It("should keep scalar fields of the original untouched", func() {
		snap := cfg.Snapshot()
		snap.Session.Secret = "tampered"
		snap.RateLimit.Max = -1

		Expect(cfg.Session.Secret).To(Equal("fixture-secret"))
		Expect(cfg.RateLimit.Max).To(Equal(100))
	})
})
