package main

import (
	"fmt"

	"github.com/fwojciec/shopparse"
)

// Run executes the classify command.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	for _, path := range c.Files {
		doc, err := deps.Loader.Load(deps.Ctx, path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", shopparse.ErrorMessage(err))
			return err
		}
		pageType, _ := deps.Registry.ForDocument(doc)
		url := doc.SourceURL
		if url == "" {
			url = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s\t%s\t%s\n", pageType, url, path)
	}
	return nil
}
