package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/faanross/nebula_stego/internal/carrier"
	"github.com/faanross/nebula_stego/internal/cipherbox"
	"github.com/faanross/nebula_stego/internal/config"
	"github.com/faanross/nebula_stego/internal/decoder"
	stegerr "github.com/faanross/nebula_stego/internal/errors"
	"github.com/faanross/nebula_stego/internal/logging"
	"github.com/faanross/nebula_stego/internal/lsb"
	"github.com/faanross/nebula_stego/internal/scrypto"
	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
	password   string
	tryList    string
	configFile string
	logLevel   string
	analyze    bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "decoder",
		Short:        "Reveal a message hidden in an image or audio carrier",
		RunE:         runDecode,
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Path to stego carrier (.png, .bmp, .wav, .flac)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Save extracted message to file")
	rootCmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompt if not provided)")
	rootCmd.Flags().StringVar(&tryList, "trylist", "", "Comma-separated passwords to try")
	rootCmd.Flags().BoolVar(&analyze, "analyze", false, "Perform security analysis only")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full extracted message")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	if err := rootCmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func runDecode(cmd *cobra.Command, args []string) error {
	conf, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		conf.Log.Level = logLevel
	}
	if conf.Log.JSON {
		os.Setenv("NEBULA_JSON_LOG", "1")
	}
	logger := logging.NewLogger("decoder", conf.Log.Level, os.Stderr)

	fmt.Println("\n🔓 Nebula Steganography Decoder")
	fmt.Println("=" + strings.Repeat("=", 40))

	kind, err := carrier.SniffFile(inputFile)
	if err != nil {
		return err
	}
	info, err := os.Stat(inputFile)
	if err != nil {
		return err
	}
	fmt.Printf("\n📷 Carrier loaded:\n")
	fmt.Printf("   File: %s (%s)\n", inputFile, humanize.Bytes(uint64(info.Size())))
	fmt.Printf("   Format: %s\n", kind)

	dec := decoder.NewDecoder(logger, cipherbox.New())

	switch kind {
	case carrier.PNG, carrier.BMP:
		img, _, err := carrier.LoadImage(inputFile)
		if err != nil {
			return err
		}
		fmt.Printf("   Dimensions: %dx%d\n", img.Bounds().Dx(), img.Bounds().Dy())
		pix, err := carrier.Pixels(img)
		if err != nil {
			return err
		}
		return decodeBuffer(dec, pix, lsb.Image, conf.MinPassword)

	case carrier.WAV:
		a, err := carrier.LoadWAV(inputFile)
		if err != nil {
			return err
		}
		fmt.Printf("   Samples: %d at %d Hz, %d channel(s)\n", len(a.Samples), a.SampleRate, a.Channels)
		return decodeBuffer(dec, a.Samples, lsb.Audio, conf.MinPassword)

	default:
		stream, err := carrier.LoadFLAC(inputFile)
		if err != nil {
			return err
		}
		samples := stream.Samples()
		fmt.Printf("   Samples: %d\n", len(samples))
		if err := stream.Verify(); err != nil {
			fmt.Printf("   ⚠️  %v\n", err)
		}
		return decodeBuffer(dec, samples, lsb.Audio, conf.MinPassword)
	}
}

func decodeBuffer[S lsb.Sample](dec *decoder.Decoder, buf []S, addr lsb.Addressing, minLen int) error {
	// Security analysis mode
	if analyze {
		printReport(decoder.Analyze(buf, addr))
		return nil
	}

	// Try multiple passwords mode
	if tryList != "" {
		passwords := strings.Split(tryList, ",")
		fmt.Printf("\n🔍 Trying %d passwords...\n", len(passwords))
		message, idx, attempts, err := decoder.TryPasswords(dec, buf, addr, passwords)
		for i, a := range attempts {
			if a.Err != nil {
				fmt.Printf("   ❌ Password %d: %s - %v\n", i+1, a.Password, a.Err)
				continue
			}
			fmt.Printf("   ✅ Password %d: %s - SUCCESS!\n", idx+1, a.Password)
		}
		if err != nil {
			return explain(err)
		}
		return showMessage(message)
	}

	pass := password
	if pass == "" {
		p, err := scrypto.GetSecurePassword("\n🔑 Enter password: ", minLen)
		if err != nil {
			return fmt.Errorf("password error: %w", err)
		}
		pass = string(p)
	}

	message, err := decoder.Reveal(dec, buf, addr, pass)
	if err != nil {
		return explain(err)
	}
	return showMessage(message)
}

func explain(err error) error {
	switch {
	case errors.Is(err, stegerr.ErrBadLength):
		fmt.Println("\n⚠️  No hidden message found in this carrier")
	case errors.Is(err, stegerr.ErrDecryptFailure):
		fmt.Println("\n⚠️  Wrong password or corrupted data")
	}
	return err
}

func showMessage(message string) error {
	fmt.Printf("\n✅ MESSAGE SUCCESSFULLY DECRYPTED\n")
	fmt.Printf("   Size: %d bytes\n", len(message))

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📝 DECRYPTED MESSAGE:")
	fmt.Println(strings.Repeat("=", 60))

	if verbose || utf8.RuneCountInString(message) <= 500 {
		fmt.Println(message)
	} else {
		// Show preview for long messages
		head, tail, omitted := preview(message, 200)
		fmt.Printf("%s\n... [%d more characters] ...\n%s\n", head, omitted, tail)
		fmt.Printf("\n(Use --verbose flag to see full message)\n")
	}

	fmt.Println(strings.Repeat("=", 60))

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(message), 0644); err != nil {
			return fmt.Errorf("saving output: %w", err)
		}
		fmt.Printf("\n💾 Message saved to: %s\n", outputFile)
	}

	fmt.Println("\n✅ Decoding complete!")
	return nil
}

// preview returns the first and last n characters of message and how many
// lie between them. Cuts never split a UTF-8 sequence.
func preview(message string, n int) (string, string, int) {
	runes := []rune(message)
	if len(runes) <= 2*n {
		return message, "", 0
	}
	return string(runes[:n]), string(runes[len(runes)-n:]), len(runes) - 2*n
}

func printReport(r decoder.Report) {
	fmt.Printf("\n🔒 Security Analysis:\n")
	fmt.Printf("   Addressable units: %s\n", humanize.Comma(int64(r.Units)))
	fmt.Printf("   LSB Distribution: %.1f%% zeros, %.1f%% ones\n", r.ZeroRatio(), 100-r.ZeroRatio())
	fmt.Printf("   LSB Entropy: %.4f bits (max: 8.0)\n", r.Entropy)

	if r.HasFrame {
		fmt.Printf("   Frame header: %d payload bits\n", r.HeaderLength)
		fmt.Println("   ⚠️  Carrier appears to hold a framed payload")
	} else {
		fmt.Println("   ✅ No frame header detected")
	}
	if r.LooksRandom() {
		fmt.Println("   ℹ️  LSB plane is close to uniform")
	}
}
