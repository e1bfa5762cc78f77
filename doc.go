// Package formadoc generates official training documents for a course
// provider: per-participant completion attestations composed onto a
// fixed-layout PDF template, and per-company training conventions rendered
// from HTML through headless Chrome.
//
// # Quick Start
//
// Create a generator over an asset source and generate a batch:
//
//	gen := formadoc.NewGenerator(
//	    formadoc.NewFileSource("template.pdf", "signature.png"),
//	)
//
//	result, err := gen.GenerateBatch(ctx, formadoc.BatchInput{
//	    Fields:     fields,
//	    Recipients: recipients,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(formadoc.ArchiveFileName, result.Archive, 0644)
//
// The result carries one artifact per successfully composed recipient plus
// the list of recipients that were skipped because their signature image
// could not be decoded. A missing master asset (template or signature) fails
// the whole batch; a per-recipient composition problem only skips that
// recipient.
//
// # Attestation Pipeline
//
// Attestation generation follows these stages:
//
//  1. Asset fetch (template PDF and signature image, from file, HTTP, or
//     object storage)
//  2. Field formatting (dates to dd/mm/yyyy, duration to hours, names)
//  3. Composition onto a fresh clone of the template at coordinates from a
//     configurable layout schema (gofpdf + gofpdi page import)
//  4. Delivery (multipart upload to the provider backend, local save)
//
// # Conventions
//
// Training conventions are structured documents (parties, schedule,
// participants, pricing, legal clauses in Markdown) rendered to paginated
// PDF via go-rod. Chrome's native print pagination is used, so page breaks
// never cut through a line of text:
//
//	rend, err := formadoc.NewConventionRenderer()
//	defer rend.Close()
//	pdf, err := rend.Render(ctx, convention)
//
// # Layout Schema
//
// Field coordinates live in a YAML layout schema, not in code. The embedded
// default matches the shipped attestation template; pass a revised schema
// with the WithLayout option when the template changes.
//
// # Browser Requirements
//
// Convention rendering requires Chrome/Chromium. go-rod downloads a managed
// Chromium on first run. Set ROD_NO_SANDBOX=1 in containers and
// ROD_BROWSER_BIN to use a pre-installed binary.
package formadoc
