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
	"fmt"
	"sort"

	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/breaker"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/swarm"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Statistics of swarms",
	Long: `Statistics of swarms

By default, basic information of each swarm is output:
  1. seed,          the most abundant amplicon
  2. size,          number of amplicons
  3. mass,          sum of abundances
  4. top_abundance, abundance of the seed
  5. peaks,         number of amplicons with an abundance >= -a/--activity-threshold
  6. active,        whether the swarm would be inspected by "swarmbreaker break"

With -S/--summary, a summary of all swarms is output instead.

If the amplicon file is given via -f/--fasta-file, all amplicons and
abundances in the swarm file are checked.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		swarmFile := checkInputFile(getFlagString(cmd, "swarm-file"), "-s/--swarm-file")
		fastaFile := getFlagString(cmd, "fasta-file")
		outFile := getFlagString(cmd, "out-file")
		summary := getFlagBool(cmd, "summary")

		bopt := breaker.DefaultOptions
		bopt.ActivityThreshold = getFlagPositiveInt(cmd, "activity-threshold")

		var store *amplicon.Store
		var err error
		if fastaFile != "" {
			store, err = amplicon.Load(checkInputFile(fastaFile, "-f/--fasta-file"))
			checkError(err)
		}

		swarms, err := swarm.Read(swarmFile, store)
		checkError(err)

		outfh, gw, w, err := outStream(outFile, gzippedOutput(outFile), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		// only used for counting peaks and checking activity
		d := breaker.NewDetector(&bopt, store)
		b := breaker.New(&bopt, store, nil)

		if !summary {
			outfh.WriteString("seed\tsize\tmass\ttop_abundance\tpeaks\tactive\n")
			var active string
			for _, s := range swarms {
				active = "no"
				if b.Active(s) {
					active = "yes"
				}
				fmt.Fprintf(outfh, "%s\t%d\t%d\t%d\t%d\t%s\n",
					s.Seed, s.Size, s.Mass, s.TopAbundance, len(d.Peaks(s)), active)
			}
			return
		}

		n := len(swarms)
		sizes := make([]float64, n)
		masses := make([]float64, n)
		var amplicons, reads, nActive, nMultiPeaks int
		for i, s := range swarms {
			sizes[i] = float64(s.Size)
			masses[i] = float64(s.Mass)
			amplicons += s.Size
			reads += s.Mass
			if b.Active(s) {
				nActive++
				if len(d.Peaks(s)) > 1 {
					nMultiPeaks++
				}
			}
		}

		outfh.WriteString("swarms\tamplicons\treads\tactive_swarms\tmulti_peak_swarms" +
			"\tmean_size\tsd_size\tmedian_size\tmax_size\tmean_mass\tsd_mass\tmedian_mass\tmax_mass\n")
		if n == 0 {
			outfh.WriteString("0\t0\t0\t0\t0\t0\t0\t0\t0\t0\t0\t0\t0\n")
			return
		}

		meanSize, sdSize, medianSize, maxSize := describe(sizes)
		meanMass, sdMass, medianMass, maxMass := describe(masses)
		fmt.Fprintf(outfh, "%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%.0f\t%.0f\t%.2f\t%.2f\t%.0f\t%.0f\n",
			n, amplicons, reads, nActive, nMultiPeaks,
			meanSize, sdSize, medianSize, maxSize,
			meanMass, sdMass, medianMass, maxMass)
	},
}

// describe returns the mean, standard deviation, median and maximum
// of a non-empty list, which is sorted in place.
func describe(x []float64) (float64, float64, float64, float64) {
	sort.Float64s(x)
	mean, sd := stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		sd = 0
	}
	median := stat.Quantile(0.5, stat.Empirical, x, nil)
	return mean, sd, median, x[len(x)-1]
}

func init() {
	utilsCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("swarm-file", "s", "",
		formatFlagUsage(`Swarms, one swarm per line, members like "id_abundance" separated by spaces ("-" for stdin).`))

	statsCmd.Flags().StringP("fasta-file", "f", "",
		formatFlagUsage(`Amplicons in FASTA format, for checking amplicons in the swarm file.`))

	statsCmd.Flags().IntP("activity-threshold", "a", breaker.DefaultOptions.ActivityThreshold,
		formatFlagUsage(`Minimum abundance of peaks.`))

	statsCmd.Flags().BoolP("summary", "S", false,
		formatFlagUsage(`Output a summary of all swarms.`))

	statsCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))

	statsCmd.SetUsageTemplate(usageTemplate("-s <swarms.txt> [-o <stats.tsv>]"))
}
