// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

//go:build integration

package place_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/copland-phrase/copland/internal/copland/phrase"
	"github.com/copland-phrase/copland/internal/copland/place"
)

const directoryXML = `<places>
  <place>
    <place_id>1</place_id>
    <host>10.0.0.5</host>
    <port>8080</port>
    <tags>
      <tag>edge</tag>
      <tag>prod</tag>
    </tags>
  </place>
</places>`

var _ = Describe("phrase to projection to accessor", func() {
	var (
		workDir  string
		scenario place.Scenario
	)

	BeforeEach(func() {
		var err error
		workDir, err = os.MkdirTemp("", "copland-place-integration-*")
		Expect(err).NotTo(HaveOccurred())
		scenario = place.Scenario{WorkDir: workDir}
	})

	AfterEach(func() {
		Expect(os.RemoveAll(workDir)).To(Succeed())
	})

	It("projects only permitted fields, then serves them back through the accessor", func() {
		tmpl := &phrase.CoplandPhrase{
			Term: "collect_evidence",
			Args: []phrase.PhraseArg{phrase.NewPlaceArg("host_id", "")},
		}
		actual, err := phrase.Parse("collect_evidence:host_id=1", tmpl)
		Expect(err).NotTo(HaveOccurred())

		perms := []phrase.PlacePerms{
			phrase.NewPlacePerms("host_id", []string{"host"}),
		}

		err = place.ProjectForPhrase(context.Background(), strings.NewReader(directoryXML), perms, actual, scenario, slog.Default())
		Expect(err).NotTo(HaveOccurred())
		Expect(scenario.PlaceFilePath()).To(BeAnExistingFile())

		f, err := os.Open(scenario.PlaceFilePath())
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		info, err := place.LoadPlaceInfo(f, "1")
		Expect(err).NotTo(HaveOccurred())

		accessor := place.NewAccessor(info)

		host, err := accessor.GetString("host")
		Expect(err).NotTo(HaveOccurred())
		Expect(host).To(Equal("10.0.0.5"))

		_, err = accessor.GetString("port")
		Expect(err).To(HaveOccurred(), "port was never granted by perms and must not appear in the projection")

		_, err = accessor.GetString("tags")
		Expect(err).To(HaveOccurred(), "tags was never granted by perms either")
	})

	It("short-circuits to no file when the actual phrase carries no PLACE argument", func() {
		actual := &phrase.CoplandPhrase{Term: "measure", Role: phrase.RoleActual}
		perms := []phrase.PlacePerms{phrase.NewPlacePerms("host_id", []string{"host"})}

		err := place.ProjectForPhrase(context.Background(), strings.NewReader(directoryXML), perms, actual, scenario, slog.Default())
		Expect(err).NotTo(HaveOccurred())
		Expect(scenario.PlaceFilePath()).NotTo(BeAnExistingFile())
	})

	It("skips an unrecognized place id without failing the whole projection", func() {
		tmpl := &phrase.CoplandPhrase{
			Term: "collect_evidence",
			Args: []phrase.PhraseArg{phrase.NewPlaceArg("host_id", "")},
		}
		actual, err := phrase.Parse("collect_evidence:host_id=2", tmpl)
		Expect(err).NotTo(HaveOccurred())

		perms := []phrase.PlacePerms{
			phrase.NewPlacePerms("host_id", []string{"host"}),
		}

		err = place.ProjectForPhrase(context.Background(), strings.NewReader(directoryXML), perms, actual, scenario, slog.Default())
		Expect(err).NotTo(HaveOccurred())

		f, err := os.Open(scenario.PlaceFilePath())
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		_, err = place.LoadPlaceInfo(f, "2")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Scenario.PlaceFilePath", func() {
	It("joins the workdir with the fixed projection filename", func() {
		s := place.Scenario{WorkDir: filepath.Join("tmp", "scenario-7")}
		Expect(s.PlaceFilePath()).To(Equal(filepath.Join("tmp", "scenario-7", place.ProjectionFileName)))
	})
})
