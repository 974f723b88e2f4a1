// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/breaker"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/linker"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/swarm"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Detect and break chains of amplicons in swarms",
	Long: `Detect and break chains of amplicons in swarms

Hypotheses:
  1. Chains of amplicons happen among the most abundant amplicons of a swarm.
  2. The number of chains in a swarm is small.
  3. The abundances of the seeds of sub-swarms are comparable.
  4. Valleys are deep compared to peaks.
  5. Swarm graphs are acyclic, so there is only one path joining two amplicons.

Method:
  1. Swarms with more than 2 amplicons and a top abundance higher than
     -a/--activity-threshold are re-clustered with swarm, using only their
     own amplicons, to obtain the pairwise links among them.
  2. Amplicons with an abundance >= -a/--activity-threshold are peaks.
     For every pair of peaks, the path joining them is searched, and the
     lowest abundance on it is the valley. A valley at the ending peak is ignored.
  3. The link on the left of the rightmost valley is deleted if:
       end/valley >= ratio, or
       end/valley >  ratio/2 and start/end < peak-ratio
     where ratio is -r/--valley-ratio. The valley becomes the seed of a new sub-swarm.
  4. The sub-swarm of the top amplicon is output, others are inspected
     again from step 1, heaviest first.

Input:
  1. Amplicons in FASTA format, with headers like ">id_abundance".
  2. Swarms, one swarm per line, with members like "id_abundance"
     separated by spaces, i.e., the output of swarm (-o).

Output:
  Swarms in the same format as the input, sorted by mass, size and seed.
  Optionally, valleys between all pairs of peaks can be saved with -R/--valley-report.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		verbose := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if verbose {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		// ---------------------------------------------------------------
		// flags

		fastaFile := checkInputFile(getFlagString(cmd, "fasta-file"), "-f/--fasta-file")
		swarmFile := checkInputFile(getFlagString(cmd, "swarm-file"), "-s/--swarm-file")
		if isStdin(fastaFile) && isStdin(swarmFile) {
			checkError(fmt.Errorf("-f/--fasta-file and -s/--swarm-file can not both be stdin"))
		}

		outFile := getFlagString(cmd, "out-file")
		reportFile := getFlagString(cmd, "valley-report")

		cfg := getConfig(cmd)
		bopt := cfg.BreakerOptions()
		checkError(breaker.CheckOptions(bopt))

		l := newLinker(cfg)

		if verbose {
			log.Infof("SwarmBreaker v%s", VERSION)
			log.Info()
			log.Infof("-------------------- [main parameters] --------------------")
			log.Infof("amplicon file: %s", fastaFile)
			log.Infof("swarm file: %s", swarmFile)
			log.Infof("swarm binary: %s (%s format)", l.Binary, l.Format)
			log.Infof("local clustering threshold: %d", bopt.Differences)
			log.Infof("activity threshold: %d", bopt.ActivityThreshold)
			log.Infof("valley ratio: %g", bopt.ValleyRatio)
			log.Infof("peak ratio: %g", bopt.PeakRatio)
			log.Infof("-------------------- [main parameters] --------------------")
			log.Info()
		}

		// ---------------------------------------------------------------
		// input

		store, swarms := loadInput(fastaFile, swarmFile, verbose)

		// ---------------------------------------------------------------
		// output

		outfh, gw, w, err := outStream(outFile, gzippedOutput(outFile), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		b := breaker.New(bopt, store, l)

		if reportFile != "" {
			rfh, rgw, rw, err := outStream(reportFile, gzippedOutput(reportFile), opt.CompressionLevel)
			checkError(err)
			defer func() {
				rfh.Flush()
				if rgw != nil {
					rgw.Close()
				}
				rw.Close()
			}()

			rfh.WriteString("swarm\tstart\tend\tabundances\tvalley\tcut\tleft\tright\n")
			b.OnValley = func(s *swarm.Swarm, v *breaker.Valley) error {
				_, err := rfh.WriteString(formatValley(s, v))
				return err
			}
		}

		// ---------------------------------------------------------------
		// process bar

		var pbs *mpb.Progress
		var bar *mpb.Bar
		if opt.Verbose {
			pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(len(swarms)),
				mpb.PrependDecorators(
					decor.Name("processed swarms: ", decor.WC{W: len("processed swarms: "), C: decor.DindentRight}),
					decor.Name("", decor.WCSyncSpaceR),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
					decor.EwmaETA(decor.ET_STYLE_GO, 10),
					decor.OnComplete(decor.Name(""), ". done"),
				),
			)
		}

		// ---------------------------------------------------------------
		// break

		if verbose {
			log.Infof("breaking swarms ...")
		}

		emit := func(s *swarm.Swarm) error {
			_, err := s.WriteTo(outfh)
			return err
		}

		ctx := context.Background()
		var t time.Time
		for _, s := range swarms {
			t = time.Now()
			if err = b.Break(ctx, s, emit); err != nil {
				if opt.Verbose {
					bar.Abort(false)
					pbs.Wait()
				}
				checkError(err)
			}
			if opt.Verbose {
				bar.EwmaIncrBy(1, time.Since(t))
			}
		}

		if opt.Verbose {
			pbs.Wait()
		}

		if verbose {
			st := b.Stats
			log.Infof("%s swarms in, %s swarms out", humanize.Comma(int64(st.Input)), humanize.Comma(int64(st.Output)))
			log.Infof("  %s swarms re-clustered, %s split with %s cuts",
				humanize.Comma(int64(st.LinkerCalls)), humanize.Comma(int64(st.Split)), humanize.Comma(int64(st.Cuts)))
			if st.Orphans > 0 {
				log.Warningf("  %s amplicons reached from no seed were kept in the sub-swarms of the top amplicons",
					humanize.Comma(int64(st.Orphans)))
			}
			if outFile != "-" {
				log.Infof("swarms saved to: %s", outFile)
			}
			if reportFile != "" {
				log.Infof("valleys saved to: %s", reportFile)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(breakCmd)

	// -----------------------------  input  -----------------------------

	breakCmd.Flags().StringP("fasta-file", "f", "",
		formatFlagUsage(`Amplicons in FASTA format, with headers like ">id_abundance" ("-" for stdin).`))

	breakCmd.Flags().StringP("swarm-file", "s", "",
		formatFlagUsage(`Swarms, one swarm per line, members like "id_abundance" separated by spaces ("-" for stdin).`))

	// -----------------------------  output  -----------------------------

	breakCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))

	breakCmd.Flags().StringP("valley-report", "R", "",
		formatFlagUsage(`Save valleys between all pairs of peaks into a tab-delimited file, supports the ".gz" suffix.`))

	// -----------------------------  heuristic  -----------------------------

	breakCmd.Flags().IntP("activity-threshold", "a", breaker.DefaultOptions.ActivityThreshold,
		formatFlagUsage(`Minimum abundance of peaks. Swarms with a top abundance not higher than it are kept as they are.`))

	breakCmd.Flags().Float64P("valley-ratio", "r", breaker.DefaultOptions.ValleyRatio,
		formatFlagUsage(`Minimum ratio of the ending peak to the valley to break the path.`))

	breakCmd.Flags().Float64P("peak-ratio", "", breaker.DefaultOptions.PeakRatio,
		formatFlagUsage(`Maximum ratio of the starting peak to the ending peak to be comparable, `+
			`in which case half of -r/--valley-ratio is enough.`))

	// -----------------------------  swarm  -----------------------------

	addLinkerFlags(breakCmd)

	breakCmd.SetUsageTemplate(usageTemplate("-f <amplicons.fasta> -s <swarms.txt> [-o <out.txt>]"))
}

// newLinker creates the swarm linker from the config.
func newLinker(cfg *Config) *linker.Swarm {
	format, err := linker.ParseFormat(cfg.Linker.Format)
	checkError(err)

	l, err := linker.NewSwarm(cfg.Linker.Binary, format, cfg.Linker.Threads)
	checkError(err)
	return l
}

// loadInput reads amplicons and swarms.
func loadInput(fastaFile, swarmFile string, verbose bool) (*amplicon.Store, []*swarm.Swarm) {
	timeStart := time.Now()
	if verbose {
		log.Infof("loading amplicons from %s ...", fastaFile)
	}
	store, err := amplicon.Load(fastaFile)
	checkError(err)
	if verbose {
		log.Infof("  %s amplicons loaded in %s", humanize.Comma(int64(store.Len())), time.Since(timeStart))
	}

	timeStart = time.Now()
	if verbose {
		log.Infof("loading swarms from %s ...", swarmFile)
	}
	swarms, err := swarm.Read(swarmFile, store)
	checkError(err)
	if verbose {
		log.Infof("  %s swarms loaded in %s", humanize.Comma(int64(len(swarms))), time.Since(timeStart))
		log.Info()
	}
	return store, swarms
}

func formatValley(s *swarm.Swarm, v *breaker.Valley) string {
	abundances := make([]string, len(v.Abundances))
	for i, a := range v.Abundances {
		abundances[i] = strconv.Itoa(a)
	}
	cut := "no"
	if v.Cut {
		cut = "yes"
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
		s.Seed, v.Start, v.End, strings.Join(abundances, ","), v.Lowest, cut, v.Left, v.Right)
}
