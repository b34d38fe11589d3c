package store

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giftmatch/catalog-ingest/internal/catalog"
	"github.com/giftmatch/catalog-ingest/internal/domain"
)

// prompter reads answers line by line, falling back to defaults on empty
// input.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) ask(question, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	if !p.in.Scan() {
		return defaultValue
	}
	answer := strings.TrimSpace(p.in.Text())
	if answer == "" {
		return defaultValue
	}
	return answer
}

func (p *prompter) askInt(question string, defaultValue int) int {
	answer := p.ask(question, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(answer)
	if err != nil {
		return defaultValue
	}
	return n
}

func (p *prompter) askFloat(question string) float64 {
	answer := p.ask(question, "")
	f, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return 0
	}
	return f
}

func (p *prompter) askBool(question string, defaultValue bool) bool {
	defaultStr := "n"
	if defaultValue {
		defaultStr = "y"
	}
	return strings.EqualFold(p.ask(question+" (y/n)", defaultStr), "y")
}

// runInteractive prompts for one product's fields on stdin and stores it.
func runInteractive(cmd *cobra.Command, stage *catalog.Stage) error {
	p := &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}

	fmt.Fprintln(p.out, "Add a new product")

	product := domain.EnrichedProduct{
		ScrapedProduct: domain.ScrapedProduct{
			Name:          p.ask("Product name", ""),
			AmazonURL:     p.ask("Amazon URL", ""),
			Price:         p.askFloat("Price (e.g. 49.99)"),
			PrimeEligible: p.askBool("Prime eligible?", false),
		},
	}
	product.MinAge = p.askInt("Minimum age", 0)
	product.MaxAge = p.askInt("Maximum age", 99)
	product.Gender = domain.ParseGender(p.ask("Gender (male/female/unisex)", "unisex"))
	product.Category = p.ask("Category (e.g. electronics, toys, books)", "")
	product.ProductDescription = p.ask("Product description (from the listing)", "")
	product.Description = p.ask("Semantic description (1-3 sentences on who this gift suits)", "")

	if tags := p.ask("Tags (comma-separated)", ""); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				product.Tags = append(product.Tags, tag)
			}
		}
	}
	product.ImageURL = p.ask("Image URL (optional)", "")
	product.AmazonASIN = p.ask("Amazon ASIN (optional)", "")

	if product.Name == "" {
		return fmt.Errorf("product name is required")
	}

	fmt.Fprintf(p.out, "\n%s: $%.2f, ages %d-%d, %s\n",
		product.Name, product.Price, product.MinAge, product.MaxAge, product.Category)
	if !p.askBool("Add this product?", true) {
		fmt.Fprintln(p.out, "Cancelled")
		return nil
	}

	id, err := stage.StoreOne(cmd.Context(), product)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Saved with ID %s\n", id)
	return nil
}
