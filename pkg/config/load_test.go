//go:build unit

package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/animalet/tramuntana/pkg/config"
	"github.com/animalet/tramuntana/pkg/envfile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Load", func() {
	var envDir string

	// writeEnvFile renders a RawSet as a key=value file. Values are single
	// quoted so placeholder references survive parsing untouched and are
	// resolved by the pipeline's own expansion stage.
	writeEnvFile := func(name string, raw envfile.RawSet) {
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		content := ""
		for _, k := range keys {
			content += fmt.Sprintf("%s='%s'\n", k, raw[k])
		}
		Expect(os.WriteFile(filepath.Join(envDir, name), []byte(content), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		envDir, err = os.MkdirTemp("", "config_load_test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(envDir)).To(Succeed())
	})

	It("should run the whole pipeline from definition files to finished configuration", func() {
		raw := fullRawSet()
		raw["WEB_PUBLIC_URL"] = "${WEB_PROTOCOL}://${WEB_HOST}:${WEB_PORT}"
		raw["API_PUBLIC_URL"] = "${API_PROTOCOL}://${API_HOST}:${API_PORT}"
		writeEnvFile("base.env", raw)

		cfg, err := config.Load(envDir, config.Options{Environment: config.Test, Version: "2.0.0", Silent: true})
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Environment).To(Equal(config.Test))
		Expect(cfg.Web.URL).To(Equal("http://localhost:3000"))
		Expect(cfg.API.URL).To(Equal("http://localhost:3001"))
		// Test overlay applied.
		Expect(cfg.Mail.Transport).To(Equal("stub"))
		// Derived fields computed.
		Expect(cfg.HasThirdPartyProviders).To(BeFalse())
	})

	It("should merge the deployment-specific file over the base file", func() {
		writeEnvFile("base.env", fullRawSet())
		writeEnvFile("test.env", envfile.RawSet{"SESSION_SECRET": "test-secret"})

		cfg, err := config.Load(envDir, config.Options{Environment: config.Test, Silent: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Session.Secret).To(Equal("test-secret"))
	})

	It("should fail fast with MissingVariableError when the schema is not satisfied", func() {
		raw := fullRawSet()
		delete(raw, "SESSION_SECRET")
		delete(raw, "REDIS_ADDRESS")
		writeEnvFile("base.env", raw)

		_, err := config.Load(envDir, config.Options{Environment: config.Development, Silent: true})
		var missing *envfile.MissingVariableError
		Expect(err).To(BeAssignableToTypeOf(missing))
		missing = err.(*envfile.MissingVariableError)
		Expect(missing.Names).To(Equal([]string{"REDIS_ADDRESS", "SESSION_SECRET"}))
	})

	It("should fail fast with UnexpectedVariableError on undeclared variables", func() {
		raw := fullRawSet()
		raw["TOTALLY_UNDECLARED"] = "x"
		writeEnvFile("base.env", raw)

		_, err := config.Load(envDir, config.Options{Environment: config.Development, Silent: true})
		var unexpected *envfile.UnexpectedVariableError
		Expect(err).To(BeAssignableToTypeOf(unexpected))
	})

	It("should fail fast on circular placeholder references", func() {
		raw := fullRawSet()
		raw["WEB_PUBLIC_URL"] = "${API_PUBLIC_URL}"
		raw["API_PUBLIC_URL"] = "${WEB_PUBLIC_URL}"
		writeEnvFile("base.env", raw)

		_, err := config.Load(envDir, config.Options{Environment: config.Development, Silent: true})
		var circular *envfile.CircularTemplateError
		Expect(err).To(BeAssignableToTypeOf(circular))
	})

	It("should default to the development environment", func() {
		writeEnvFile("base.env", fullRawSet())

		cfg, err := config.Load(envDir, config.Options{Silent: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Environment).To(Equal(config.Development))
		Expect(cfg.Mail.Transport).To(Equal("log"))
	})
})
