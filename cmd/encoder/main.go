package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/faanross/nebula_stego/internal/capacity"
	"github.com/faanross/nebula_stego/internal/carrier"
	"github.com/faanross/nebula_stego/internal/cipherbox"
	"github.com/faanross/nebula_stego/internal/config"
	"github.com/faanross/nebula_stego/internal/decoder"
	"github.com/faanross/nebula_stego/internal/encoder"
	stegerr "github.com/faanross/nebula_stego/internal/errors"
	"github.com/faanross/nebula_stego/internal/logging"
	"github.com/faanross/nebula_stego/internal/lsb"
	"github.com/faanross/nebula_stego/internal/scrypto"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	inputFile   string
	messageText string
	outputFile  string
	carrierFile string
	password    string
	configFile  string
	logLevel    string
	width       int
	seconds     float64
	analyze     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "encoder",
		Short:        "Hide an encrypted message in an image or audio carrier",
		RunE:         runEncode,
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Path to input text file")
	rootCmd.Flags().StringVarP(&messageText, "message", "m", "", "Message text (instead of --input)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output carrier (.png, .bmp, .wav or .flac)")
	rootCmd.Flags().StringVarP(&carrierFile, "carrier", "c", "", "Existing carrier to embed into (generated when empty)")
	rootCmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompt if not provided)")
	rootCmd.Flags().IntVar(&width, "width", 0, "Generated image width (default from config)")
	rootCmd.Flags().Float64Var(&seconds, "seconds", 3, "Minimum generated audio length")
	rootCmd.Flags().BoolVar(&analyze, "analyze", false, "Show LSB analysis of the result")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	if err := rootCmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}

	capacityCmd := &cobra.Command{
		Use:   "capacity <carrier>",
		Short: "Report how much a carrier can hold",
		Args:  cobra.ExactArgs(1),
		RunE:  runCapacity,
	}
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Print the style seed and mood derived from a message",
		RunE:  runSeed,
	}
	seedCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Path to input text file")
	seedCmd.Flags().StringVarP(&messageText, "message", "m", "", "Message text (instead of --input)")

	rootCmd.AddCommand(capacityCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, hclog.Logger, error) {
	conf, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		conf.Log.Level = logLevel
	}
	if conf.Log.JSON {
		os.Setenv("NEBULA_JSON_LOG", "1")
	}
	return conf, logging.NewLogger("encoder", conf.Log.Level, os.Stderr), nil
}

func readMessage() (string, error) {
	if messageText != "" {
		return messageText, nil
	}
	if inputFile == "" {
		return "", fmt.Errorf("provide a message with --message or --input")
	}
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

func readPassword(minLen int) (string, error) {
	if password != "" {
		if len(password) < minLen {
			return "", fmt.Errorf("password must be at least %d characters", minLen)
		}
		return password, nil
	}

	pass, err := scrypto.GetSecurePassword(fmt.Sprintf("\n🔑 Enter password (min %d chars): ", minLen), minLen)
	if err != nil {
		return "", err
	}
	confirm, err := scrypto.GetSecurePassword("🔑 Confirm password: ", minLen)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(pass, confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pass), nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	conf, logger, err := setup()
	if err != nil {
		return err
	}

	fmt.Println("\n🔐 Nebula Steganography Encoder")
	fmt.Println("=" + strings.Repeat("=", 40))

	message, err := readMessage()
	if err != nil {
		return err
	}
	fmt.Printf("\n📄 Message: %d bytes\n", len(message))

	pass, err := readPassword(conf.MinPassword)
	if err != nil {
		return err
	}

	outKind, err := carrier.FromExtension(outputFile)
	if err != nil {
		return err
	}

	enc := encoder.NewEncoder(logger, &cipherbox.Box{Iterations: conf.KDFIterations})
	if width <= 0 {
		width = conf.Carrier.Width
	}

	var report decoder.Report
	if carrierFile == "" {
		report, err = encodeGenerated(enc, conf, outKind, message, pass)
	} else {
		report, err = encodeInto(enc, outKind, message, pass)
	}
	if err != nil {
		var capErr *stegerr.CapacityError
		if errors.As(err, &capErr) {
			fmt.Printf("\n❌ Message too long for this carrier: max %d bytes of plaintext\n", capErr.MaxPlaintextBytes)
		}
		return err
	}

	if info, err := os.Stat(outputFile); err == nil {
		fmt.Printf("\n✅ Steganography complete!\n")
		fmt.Printf("   Output: %s (%s)\n", outputFile, humanize.Bytes(uint64(info.Size())))
	}
	fmt.Printf("   Security: AES-256-GCM + PBKDF2-%d\n", conf.KDFIterations)

	if analyze {
		printReport(report)
	}
	return nil
}

func encodeGenerated(enc *encoder.Encoder, conf *config.Config, kind carrier.Container, message, pass string) (decoder.Report, error) {
	switch kind {
	case carrier.PNG, carrier.BMP:
		img, style, err := enc.CreateStegoImage(message, pass, width, conf.Lexicon)
		if err != nil {
			return decoder.Report{}, err
		}
		printStyle(style)
		fmt.Printf("   Image dimensions: %dx%d\n", img.Bounds().Dx(), img.Bounds().Dy())
		if err := carrier.SaveImage(outputFile, img); err != nil {
			return decoder.Report{}, err
		}
		pix, err := carrier.Pixels(img)
		if err != nil {
			return decoder.Report{}, err
		}
		return decoder.Analyze(pix, lsb.Image), nil

	case carrier.WAV:
		minSamples := int(seconds * float64(conf.Carrier.SampleRate))
		tone, style, err := enc.CreateStegoTone(message, pass, conf.Carrier.SampleRate, minSamples, conf.Lexicon)
		if err != nil {
			return decoder.Report{}, err
		}
		printStyle(style)
		fmt.Printf("   Samples: %d at %d Hz\n", len(tone.Samples), tone.SampleRate)
		if err := carrier.SaveWAV(outputFile, tone); err != nil {
			return decoder.Report{}, err
		}
		return decoder.Analyze(tone.Samples, lsb.Audio), nil
	}
	return decoder.Report{}, fmt.Errorf("%w: %s output needs an existing --carrier", stegerr.ErrUnsupportedContainer, kind)
}

func encodeInto(enc *encoder.Encoder, outKind carrier.Container, message, pass string) (decoder.Report, error) {
	inKind, err := carrier.SniffFile(carrierFile)
	if err != nil {
		return decoder.Report{}, err
	}
	if inKind.IsImage() != outKind.IsImage() || (!inKind.IsImage() && inKind != outKind) {
		return decoder.Report{}, fmt.Errorf("%w: cannot turn a %s carrier into %s",
			stegerr.ErrUnsupportedContainer, inKind, outKind)
	}
	fmt.Printf("\n📷 Carrier: %s (%s)\n", carrierFile, inKind)

	switch inKind {
	case carrier.PNG, carrier.BMP:
		img, _, err := carrier.LoadImage(carrierFile)
		if err != nil {
			return decoder.Report{}, err
		}
		if err := enc.EmbedImage(img, message, pass); err != nil {
			return decoder.Report{}, err
		}
		if err := carrier.SaveImage(outputFile, img); err != nil {
			return decoder.Report{}, err
		}
		pix, err := carrier.Pixels(img)
		if err != nil {
			return decoder.Report{}, err
		}
		return decoder.Analyze(pix, lsb.Image), nil

	case carrier.WAV:
		a, err := carrier.LoadWAV(carrierFile)
		if err != nil {
			return decoder.Report{}, err
		}
		if err := enc.EmbedAudio(a.Samples, message, pass); err != nil {
			return decoder.Report{}, err
		}
		if err := carrier.SaveWAV(outputFile, a); err != nil {
			return decoder.Report{}, err
		}
		return decoder.Analyze(a.Samples, lsb.Audio), nil

	default:
		stream, err := carrier.LoadFLAC(carrierFile)
		if err != nil {
			return decoder.Report{}, err
		}
		samples := stream.Samples()
		if err := enc.EmbedSamples32(samples, message, pass); err != nil {
			return decoder.Report{}, err
		}
		if err := stream.SetSamples(samples); err != nil {
			return decoder.Report{}, err
		}
		if err := stream.Save(outputFile); err != nil {
			return decoder.Report{}, err
		}
		return decoder.Analyze(samples, lsb.Audio), nil
	}
}

func runCapacity(cmd *cobra.Command, args []string) error {
	if _, _, err := setup(); err != nil {
		return err
	}

	kind, err := carrier.SniffFile(args[0])
	if err != nil {
		return err
	}

	var units int
	switch kind {
	case carrier.PNG, carrier.BMP:
		img, _, err := carrier.LoadImage(args[0])
		if err != nil {
			return err
		}
		units = img.Bounds().Dx() * img.Bounds().Dy()
	case carrier.WAV:
		a, err := carrier.LoadWAV(args[0])
		if err != nil {
			return err
		}
		units = len(a.Samples)
	default:
		stream, err := carrier.LoadFLAC(args[0])
		if err != nil {
			return err
		}
		units = len(stream.Samples())
	}

	fmt.Printf("\n📊 Carrier capacity: %s (%s)\n", args[0], kind)
	fmt.Printf("   Addressable units: %s\n", humanize.Comma(int64(units)))
	fmt.Printf("   Payload capacity: %s bits\n", humanize.Comma(int64(capacity.Bits(units, capacity.DefaultReserved))))
	fmt.Printf("   Max ciphertext: %s\n", humanize.Bytes(uint64(capacity.MaxCiphertextChars(units))))
	fmt.Printf("   Max message: %d bytes\n", capacity.MaxPlaintextBytes(units))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	conf, _, err := setup()
	if err != nil {
		return err
	}
	message, err := readMessage()
	if err != nil {
		return err
	}
	printStyle(encoder.StyleFor(message, conf.Lexicon))
	return nil
}

func printStyle(style encoder.Style) {
	fmt.Printf("\n🎨 Carrier style:\n")
	fmt.Printf("   Seed: %d\n", style.Seed)
	fmt.Printf("   Mood: %s\n", style.Mood)
}

func printReport(r decoder.Report) {
	fmt.Printf("\n🔒 Security Analysis:\n")
	fmt.Printf("   Addressable units: %d\n", r.Units)
	fmt.Printf("   LSB Distribution: %.1f%% zeros, %.1f%% ones\n", r.ZeroRatio(), 100-r.ZeroRatio())
	fmt.Printf("   LSB Entropy: %.4f bits (max: 8.0)\n", r.Entropy)
	if r.HasFrame {
		fmt.Printf("   Frame header: %d payload bits\n", r.HeaderLength)
	}
}
