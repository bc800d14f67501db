/*
Package editor is the engine of a mug designer: it places images, text boxes, shapes and
SVG artwork on a design canvas, applies color filters to images, removes image backgrounds
and exports the flattened design as a PNG file.

Background removal is based on a color-distance mask filter. The key color can be picked
interactively with an eyedropper, which samples the pixels of the selected image only,
even when other layers overlap it.

The package provides a command line interface as well. To check the supported commands type:

	$ mug --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"os"

		editor "github.com/MadMatas/img-editor"
	)

	func main() {
		p := &editor.Processor{
			KeyColor:  "#ffffff",
			Tolerance: 38,
		}

		if err := p.Process(os.Stdin, os.Stdout); err != nil {
			fmt.Printf("Error processing image: %s", err.Error())
		}
	}
*/
package editor
