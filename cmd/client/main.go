package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/scansoal/scansoal/pkg/client"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:3000", "server url")
	tokenFlag := flag.String("token", "", "server token")
	outputFlag := flag.String("output", ".", "output directory")

	pgFlag := flag.Int("pg", -1, "number of multiple choice questions")
	essayFlag := flag.Int("essay", -1, "number of essay questions")

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: client [flags] image...")
		os.Exit(2)
	}

	ctx := context.Background()

	options := []client.RequestOption{}

	if *tokenFlag != "" {
		options = append(options, client.WithToken(*tokenFlag))
	}

	c := client.New(*urlFlag, options...)

	var files []client.File

	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)

		if err != nil {
			panic(err)
		}

		files = append(files, client.File{
			Name: filepath.Base(path),

			Content:     data,
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
		})
	}

	upload := &client.UploadOptions{}

	if *pgFlag >= 0 {
		upload.PGCount = client.Ptr(*pgFlag)
	}

	if *essayFlag >= 0 {
		upload.EssayCount = client.Ptr(*essayFlag)
	}

	scan, err := c.Scans.Upload(ctx, files, upload)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if scan.Fallback {
		fmt.Fprintln(os.Stderr, "warning: the answer could not be structured")
	}

	if scan.Failed > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d images could not be read\n", scan.Failed, scan.Images)
	}

	fmt.Println("Soal:")
	fmt.Println(scan.Soal)
	fmt.Println()
	fmt.Println("Jawaban:")
	fmt.Println(scan.Jawaban)
	fmt.Println()

	download, err := c.Scans.Download(ctx, scan.ID)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	name := download.Name

	if name == "" {
		name = scan.ID
	}

	path := filepath.Join(*outputFlag, filepath.Base(name))

	if err := os.WriteFile(path, download.Content, 0600); err != nil {
		panic(err)
	}

	fmt.Println("Saved: " + path)
}
