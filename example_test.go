package formadoc_test

import (
	"context"
	"fmt"
	"strings"

	formadoc "github.com/yleroy/go-formadoc"
)

// Example demonstrates deriving display values and file names for one
// attestation recipient.
func Example() {
	recipient := formadoc.Recipient{LastName: "Dupont", FirstName: "Marie"}

	fmt.Println(recipient.FullName())
	fmt.Println(formadoc.AttestationFileName(recipient))
	fmt.Println(formadoc.FormatDate("2024-03-15"))
	// Output:
	// Marie Dupont
	// Dupont_Marie_attestation.pdf
	// 15/03/2024
}

// Example_conventionHTML demonstrates building the convention document as
// HTML. For PDF output, call Render instead (requires Chrome).
func Example_conventionHTML() {
	renderer, err := formadoc.NewConventionRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer renderer.Close()

	html, err := renderer.BuildHTML(context.Background(), formadoc.Convention{
		SessionID:  "sess-42",
		Provider:   formadoc.Party{Name: "FormaPro"},
		Company:    formadoc.Party{Name: "Acme SARL"},
		CourseName: "Go avancé",
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-05",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(html, "Convention de formation") {
		fmt.Println("HTML generated successfully")
	}
	// Output: HTML generated successfully
}
