// Command omnizip compresses, extracts, and repairs XZ streams and PAR2
// recovery sets from the command line.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	omnizip "github.com/omnizip/omnizip-sub003"
	"github.com/omnizip/omnizip-sub003/archive"
	"github.com/omnizip/omnizip-sub003/filters"
	"github.com/omnizip/omnizip-sub003/lzma"
	"github.com/omnizip/omnizip-sub003/par2"
	"github.com/omnizip/omnizip-sub003/pkg/fileio"
	"github.com/omnizip/omnizip-sub003/xz"
)

const appVersion = "0.1.0"

func main() {
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "compress":
		err = runCompress(args)
	case "decompress":
		err = runDecompress(args)
	case "pack":
		err = runPack(args)
	case "unpack":
		err = runUnpack(args)
	case "extract":
		err = runExtract(args)
	case "par2-create":
		err = runPar2Create(args)
	case "par2-verify":
		err = runPar2Verify(args)
	case "par2-repair":
		err = runPar2Repair(args)
	case "version":
		fmt.Printf("omnizip version %s\n", appVersion)
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  compress    -i <file> -o <file.xz> [-filter name] [-check crc32|crc64|sha256|none]\n")
	fmt.Fprintf(os.Stderr, "  decompress  -i <file.xz> -o <file>\n")
	fmt.Fprintf(os.Stderr, "  pack        -i <file> -o <file.omz> -algorithm store|deflate|lzma|lzma2|zstandard [-filter name] [-check crc32|crc64|sha256|none]\n")
	fmt.Fprintf(os.Stderr, "  unpack      -i <file.omz> -o <file>\n")
	fmt.Fprintf(os.Stderr, "  extract     -i <archive.zip|.7z|.rar> [-member name] -o <file>\n")
	fmt.Fprintf(os.Stderr, "  par2-create -dir <dir> -files a,b,c [-block-size n] [-redundancy pct] -main <out.par2> -vol <out.vol>\n")
	fmt.Fprintf(os.Stderr, "  par2-verify -dir <dir> -main <set.par2>\n")
	fmt.Fprintf(os.Stderr, "  par2-repair -dir <dir> -main <set.par2> -vol <vol1,vol2,...>\n")
	fmt.Fprintf(os.Stderr, "  version\n")
}

func runCompress(args []string) error {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	input := fs.String("i", "", "input file path (required)")
	output := fs.String("o", "", "output .xz path (required)")
	filterName := fs.String("filter", "", "pre-filter: delta, x86, arm, armthumb, arm64, powerpc, ia64, sparc")
	check := fs.String("check", "crc64", "content check: none, crc32, crc64, sha256")
	level := fs.Int("level", 6, "LZMA2 compression level (0-9)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("compress requires -i and -o")
	}

	data, err := readAllFile(*input)
	if err != nil {
		return err
	}

	checkType, err := parseCheckType(*check)
	if err != nil {
		return err
	}

	opts := xz.DefaultOptions()
	opts.Check = checkType
	opts.Level = *level

	if *filterName != "" {
		kind, err := parseFilterKind(*filterName)
		if err != nil {
			return err
		}
		opts.FilterChain = []xz.FilterSpec{{ID: kind.FilterID()}}
	}

	out, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create %s: %w", *output, err)
	}
	defer out.Close()

	if err := xz.Compress(out, data, opts); err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	return nil
}

func runDecompress(args []string) error {
	fs := flag.NewFlagSet("decompress", flag.ExitOnError)
	input := fs.String("i", "", "input .xz path (required)")
	output := fs.String("o", "", "output file path (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("decompress requires -i and -o")
	}

	r, err := fileio.OpenFile(*input)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := xz.Decompress(r)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	return os.WriteFile(*output, data, 0o644)
}

func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	input := fs.String("i", "", "input file path (required)")
	output := fs.String("o", "", "output path (required)")
	algName := fs.String("algorithm", "lzma2", "codec: store, deflate, lzma, lzma2, zstandard")
	filterName := fs.String("filter", "", "pre-filter: delta, x86, arm, armthumb, arm64, powerpc, ia64, sparc")
	check := fs.String("check", "crc64", "content check: none, crc32, crc64, sha256")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("pack requires -i and -o")
	}

	data, err := readAllFile(*input)
	if err != nil {
		return err
	}

	alg, err := parseAlgorithm(*algName)
	if err != nil {
		return err
	}
	checkType, err := parseCheckType(*check)
	if err != nil {
		return err
	}

	opt := omnizip.CompressOptions{
		Algorithm: alg,
		LZMA:      lzma.DefaultProperties(),
		CheckType: checkType,
	}
	if *filterName != "" {
		kind, err := parseFilterKind(*filterName)
		if err != nil {
			return err
		}
		f, err := filters.New(kind, 4)
		if err != nil {
			return err
		}
		opt.Filters = []filters.Filter{f}
	}

	out, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create %s: %w", *output, err)
	}
	defer out.Close()

	return omnizip.Compress(out, bytes.NewReader(data), opt)
}

func runUnpack(args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)
	input := fs.String("i", "", "input path (required)")
	output := fs.String("o", "", "output file path (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("unpack requires -i and -o")
	}

	r, err := fileio.OpenFile(*input)
	if err != nil {
		return err
	}
	defer r.Close()

	var out bytes.Buffer
	if err := omnizip.Decompress(&out, r); err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	return os.WriteFile(*output, out.Bytes(), 0o644)
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	input := fs.String("i", "", "input archive path (required)")
	member := fs.String("member", "", "archive member to extract (auto-detected payload if omitted)")
	output := fs.String("o", "", "output file path (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("extract requires -i and -o")
	}

	arc, err := archive.Open(*input)
	if err != nil {
		return err
	}
	defer arc.Close()

	name := *member
	if name == "" {
		name, err = archive.DetectPayloadFile(arc)
		if err != nil {
			return err
		}
	}

	rc, _, err := arc.Open(name)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := fileio.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read %s from archive: %w", name, err)
	}
	return os.WriteFile(*output, data, 0o644)
}

func runPar2Create(args []string) error {
	fs := flag.NewFlagSet("par2-create", flag.ExitOnError)
	dir := fs.String("dir", "", "directory containing the files to protect (required)")
	fileList := fs.String("files", "", "comma-separated file names relative to -dir (required)")
	blockSize := fs.Int("block-size", 4096, "recovery slice size in bytes")
	redundancy := fs.Int("redundancy", 10, "recovery redundancy percent")
	mainOut := fs.String("main", "", "output path for the main packet set (required)")
	volOut := fs.String("vol", "", "output path for the recovery volume (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *fileList == "" || *mainOut == "" || *volOut == "" {
		return fmt.Errorf("par2-create requires -dir, -files, -main, and -vol")
	}

	names := strings.Split(*fileList, ",")
	res, err := par2.Create(*dir, names, par2.CreateOptions{
		BlockSize:         *blockSize,
		RedundancyPercent: *redundancy,
		CreatorText:       "omnizip " + appVersion,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(*mainOut, res.Main, 0o644); err != nil {
		return err
	}
	return os.WriteFile(*volOut, res.Volume, 0o644)
}

func runPar2Verify(args []string) error {
	fs := flag.NewFlagSet("par2-verify", flag.ExitOnError)
	dir := fs.String("dir", "", "directory containing the protected files (required)")
	mainPath := fs.String("main", "", "path to the main packet set (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *mainPath == "" {
		return fmt.Errorf("par2-verify requires -dir and -main")
	}

	mainData, err := os.ReadFile(*mainPath)
	if err != nil {
		return err
	}
	result, err := par2.Verify(*dir, mainData)
	if err != nil {
		return err
	}

	for _, f := range result.Files {
		switch {
		case f.Missing:
			fmt.Printf("%s: missing (%d blocks)\n", f.Name, f.TotalBlocks)
		case len(f.DamagedBlocks) > 0:
			fmt.Printf("%s: damaged blocks %v\n", f.Name, f.DamagedBlocks)
		default:
			fmt.Printf("%s: ok\n", f.Name)
		}
	}
	fmt.Printf("%d/%d blocks bad\n", result.BadBlocks, result.TotalBlocks)
	return nil
}

func runPar2Repair(args []string) error {
	fs := flag.NewFlagSet("par2-repair", flag.ExitOnError)
	dir := fs.String("dir", "", "directory containing the protected files (required)")
	mainPath := fs.String("main", "", "path to the main packet set (required)")
	volList := fs.String("vol", "", "comma-separated recovery volume paths (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *mainPath == "" || *volList == "" {
		return fmt.Errorf("par2-repair requires -dir, -main, and -vol")
	}

	mainData, err := os.ReadFile(*mainPath)
	if err != nil {
		return err
	}

	volPaths := strings.Split(*volList, ",")
	volumes := make([][]byte, len(volPaths))
	for i, p := range volPaths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading volume %s: %w", p, err)
		}
		volumes[i] = data
	}

	return par2.RepairFiles(*dir, mainData, volumes)
}

func readAllFile(path string) ([]byte, error) {
	r, err := fileio.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return fileio.ReadAll(r)
}

func parseCheckType(name string) (xz.CheckType, error) {
	switch strings.ToLower(name) {
	case "none":
		return xz.CheckNone, nil
	case "crc32":
		return xz.CheckCRC32, nil
	case "crc64":
		return xz.CheckCRC64, nil
	case "sha256":
		return xz.CheckSHA256, nil
	default:
		return 0, fmt.Errorf("unknown check type %q", name)
	}
}

func parseAlgorithm(name string) (omnizip.Algorithm, error) {
	switch strings.ToLower(name) {
	case "store":
		return omnizip.AlgorithmStore, nil
	case "deflate":
		return omnizip.AlgorithmDeflate, nil
	case "deflate64":
		return omnizip.AlgorithmDeflate64, nil
	case "lzma":
		return omnizip.AlgorithmLZMA, nil
	case "lzma2":
		return omnizip.AlgorithmLZMA2, nil
	case "bzip2":
		return omnizip.AlgorithmBzip2, nil
	case "ppmd7":
		return omnizip.AlgorithmPPMd7, nil
	case "ppmd8":
		return omnizip.AlgorithmPPMd8, nil
	case "zstandard":
		return omnizip.AlgorithmZstandard, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", name)
	}
}

func parseFilterKind(name string) (filters.Kind, error) {
	switch strings.ToLower(name) {
	case "delta":
		return filters.KindDelta, nil
	case "x86":
		return filters.KindBCJX86, nil
	case "arm":
		return filters.KindBCJARM, nil
	case "armthumb":
		return filters.KindBCJARMThumb, nil
	case "arm64":
		return filters.KindBCJARM64, nil
	case "powerpc":
		return filters.KindBCJPowerPC, nil
	case "ia64":
		return filters.KindBCJIA64, nil
	case "sparc":
		return filters.KindBCJSPARC, nil
	default:
		return 0, fmt.Errorf("unknown filter %q", name)
	}
}
