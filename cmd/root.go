// Package cmd is for command line interactions with the allmap application
package cmd

import (
	"os"

	"github.com/allmap-bio/allmap/config"
	"github.com/allmap-bio/allmap/internal/allmap"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command: all-to-all overlap detection over the
// reads of one FASTA/FASTQ file, in window batches that bound memory use.
var rootCmd = &cobra.Command{
	Use:   "allmap <sequences>",
	Short: "Find overlaps between every pair of reads in a sequence file",
	Long: `Compare every read in a FASTA/FASTQ file (optionally gzip-compressed)
against every other and report candidate overlaps in PAF on stdout.

Reads are processed in fixed-size window batches so the minimizer index
stays within bounded memory: each query window is first compared against
itself, then against every later target window. Diagnostics and stage
timings are written to stderr, apart from the PAF stream.`,
	Version:       "0.1.0",
	Args:          cobra.ExactArgs(1),
	RunE:          runRoot,
	SilenceErrors: true,
}

// runRoot maps the reads of the passed sequence file all-to-all and logs the
// accumulated stage timings once the whole collection has been processed.
func runRoot(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	c := config.New()

	if c.KmerSize < 1 || c.KmerSize > allmap.MaximumKmerSize() {
		return errors.Errorf("kmer of size %d is not allowed, maximum k = %d",
			c.KmerSize, allmap.MaximumKmerSize())
	}
	if c.WindowSize < 1 {
		return errors.Errorf("window of size %d is not allowed", c.WindowSize)
	}
	if c.IndexSize < 1 {
		return errors.Errorf("index batch of size %d is not allowed", c.IndexSize)
	}

	seq.ValidateSeq = false // reads are sketched as-is, skip alphabet checks

	timings := &allmap.StageTimings{}
	pipeline := &allmap.Pipeline{
		Path:       args[0],
		KmerSize:   c.KmerSize,
		WindowSize: c.WindowSize,
		Builder:    allmap.MinimizerBuilder{},
		Out:        os.Stdout,
		Timings:    timings,
	}
	planner := &allmap.Planner{IndexSize: c.IndexSize}

	if err := planner.PlanAndRun(pipeline.RunWindow); err != nil {
		return err
	}

	timings.Log()
	return nil
}

// set flags
func init() {
	rootCmd.Flags().IntP("kmer-size", "k", 15, "length of kmer to use for minimizers")
	rootCmd.Flags().IntP("window-size", "w", 15, "length of window to use for minimizers")
	rootCmd.Flags().IntP("index-size", "i", 10000, "number of reads per window index batch")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
