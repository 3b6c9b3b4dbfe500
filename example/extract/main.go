package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/javi11/rarchive"
)

// This example reconstructs (concatenates) file contents from a multi-part
// RAR archive using the structural metadata ListFiles gathers. It only works
// for files stored (no compression, no encryption) in the archive, because
// it just concatenates raw stored data segments: if the archive used
// compression you would need an actual RAR decompressor.
func main() {
	if len(os.Args) < 3 {
		log.Fatalf("usage: %s <first-volume>.part1.rar <output-dir>", os.Args[0])
	}
	first := os.Args[1]
	outDir := os.Args[2]

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	aggregated, err := rarchive.ListFiles(first)
	if err != nil {
		log.Fatalf("aggregate: %v", err)
	}

	for _, af := range aggregated {
		if len(af.Parts) == 0 {
			continue
		}
		if !af.AllStored {
			fmt.Printf("Skipping %s (not stored / compressed)\n", af.Name)
			continue
		}
		outPath := filepath.Join(outDir, af.Name)

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			log.Fatalf("create output dir: %v", err)
		}

		outF, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("create %s: %v", outPath, err)
		}
		func() {
			defer func() {
				if cerr := outF.Close(); cerr != nil {
					log.Printf("close %s: %v", outPath, cerr)
				}
			}()
			var written int64
			for idx, part := range af.Parts {
				func() {
					f, err := os.Open(part.Path)
					if err != nil {
						log.Fatalf("open volume %s: %v", part.Path, err)
					}
					defer func() { _ = f.Close() }()

					if _, err := f.Seek(part.DataOffset, io.SeekStart); err != nil {
						log.Fatalf("seek %s: %v", part.Path, err)
					}
					copied, err := io.CopyN(outF, f, part.PackedSize)
					if err != nil {
						log.Fatalf("copy part %d of %s from %s: %v", idx, af.Name, part.Path, err)
					}
					written += copied
				}()
			}
			fmt.Printf("Extracted %s (%d bytes written, expected around %d) from %d stored part(s)\n",
				af.Name, written, af.TotalUnpackedSize, len(af.Parts))
		}()
	}
}
