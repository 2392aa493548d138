// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package place

import (
	"context"
	"encoding/xml"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
	"github.com/copland-phrase/copland/internal/copland/phrase"
)

// ProjectionFileName is the scenario-scoped projection artifact's
// build-time-fixed filename, carried from the original's
// COPLAND_PLACE_PERMS_FILE constant.
const ProjectionFileName = "copland_place_perms.xml"

// Scenario identifies the workdir a projection file is scoped to; the
// workdir path is the synchronisation token callers use to guarantee
// scenarios never share a projection file concurrently.
type Scenario struct {
	WorkDir string
}

// PlaceFilePath returns the path of this scenario's projection file
// under WorkDir (absolute only if WorkDir is), mirroring the original's
// get_place_file_name.
func (s Scenario) PlaceFilePath() string {
	return filepath.Join(s.WorkDir, ProjectionFileName)
}

// ProjectForPhrase filters directory by perms and actual's PLACE-kind
// arguments, writing the permitted projection to the scenario's
// projection file. Absence of any PLACE arg, an empty perms list, or a
// nil directory reader all short-circuit to success with no file
// produced. Any XML write failure is fatal for the whole projection; the
// caller must remove the output file, since its contents are left in an
// undefined state.
func ProjectForPhrase(ctx context.Context, directory io.Reader, perms []phrase.PlacePerms, actual *phrase.CoplandPhrase, scenario Scenario, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	placeArgs := placeArgsOf(actual)
	if len(placeArgs) == 0 || len(perms) == 0 || directory == nil {
		return nil
	}

	places, err := loadDirectory(directory)
	if err != nil {
		return err
	}

	outPath := scenario.PlaceFilePath()
	f, err := os.Create(outPath)
	if err != nil {
		return coplerr.IoFailure("create projection file", err)
	}
	defer f.Close()

	return writeProjection(ctx, f, places, perms, placeArgs, logger)
}

// placeArgsOf returns the PLACE-kind arguments of p, in order.
func placeArgsOf(p *phrase.CoplandPhrase) []phrase.PhraseArg {
	if p == nil {
		return nil
	}
	var out []phrase.PhraseArg
	for _, a := range p.Args {
		if a.Kind == phrase.ArgPlace {
			out = append(out, a)
		}
	}
	return out
}

// writeProjection emits the <places> document: one <place> per
// permitted, found PLACE argument, each carrying only the id field and
// the fields its PlacePerms entry allows.
func writeProjection(ctx context.Context, w io.Writer, places []element, perms []phrase.PlacePerms, placeArgs []phrase.PhraseArg, logger *slog.Logger) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	rootStart := xml.StartElement{Name: xml.Name{Local: "places"}}
	if err := enc.EncodeToken(rootStart); err != nil {
		return coplerr.IoFailure("write places root", err)
	}

	for _, arg := range placeArgs {
		if err := ctx.Err(); err != nil {
			return coplerr.IoFailure("projection cancelled", err)
		}

		perm, ok := findPermsByID(perms, arg.Name)
		if !ok {
			continue
		}

		found, ok := findPlaceByID(places, arg.Text)
		if !ok {
			logger.Warn("place not found in directory", "place_arg", arg.Name, "id", arg.Text)
			continue
		}

		if err := writePlace(enc, found, perm); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(rootStart.End()); err != nil {
		return coplerr.IoFailure("write places root end", err)
	}
	return wrapIoErr("flush projection", enc.Flush())
}

// findPermsByID returns the PlacePerms entry whose ID matches label.
func findPermsByID(perms []phrase.PlacePerms, label string) (phrase.PlacePerms, bool) {
	for _, p := range perms {
		if p.ID == label {
			return p, true
		}
	}
	return phrase.PlacePerms{}, false
}

// writePlace emits one <place> element containing only the id field and
// the fields perm allows, in the directory element's original order.
func writePlace(enc *xml.Encoder, src element, perm phrase.PlacePerms) error {
	placeStart := xml.StartElement{Name: xml.Name{Local: "place"}}
	if err := enc.EncodeToken(placeStart); err != nil {
		return coplerr.IoFailure("write place start", err)
	}

	for _, field := range src.Children {
		tag := field.XMLName.Local
		if tag != PlaceIDFieldTag && !perm.Allows(tag) {
			continue
		}
		if err := writeField(enc, field); err != nil {
			return err
		}
	}

	return wrapIoErr("write place end", enc.EncodeToken(placeStart.End()))
}

// writeField emits a single field: flat text if it has no element
// children, else a nested element per child carrying that child's text.
func writeField(enc *xml.Encoder, field element) error {
	start := xml.StartElement{Name: xml.Name{Local: field.XMLName.Local}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if !field.hasElementChildren() {
		if err := enc.EncodeToken(xml.CharData(field.text())); err != nil {
			return err
		}
	} else {
		for _, sub := range field.Children {
			subStart := xml.StartElement{Name: xml.Name{Local: sub.XMLName.Local}}
			if err := enc.EncodeToken(subStart); err != nil {
				return err
			}
			if err := enc.EncodeToken(xml.CharData(sub.text())); err != nil {
				return err
			}
			if err := enc.EncodeToken(subStart.End()); err != nil {
				return err
			}
		}
	}

	return enc.EncodeToken(start.End())
}

// wrapIoErr turns a nil error into a nil coplerr.IoFailure, avoiding
// double-wrapping a nil cause as a non-nil error.
func wrapIoErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return coplerr.IoFailure(op, err)
}
