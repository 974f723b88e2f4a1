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
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/SwarmBreaker/swarmbreaker/amplicon"
	"github.com/spf13/cobra"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Output pairwise links of amplicons in swarms by re-clustering",
	Long: `Output pairwise links of amplicons in swarms by re-clustering

Each swarm with more than one amplicon is re-clustered with swarm, using
only its own amplicons, and the links reported are output, which are the
edges of the graph where "swarmbreaker break" searches valleys.

Output format (tab-delimited):
  1. swarm, the seed of the swarm
  2. from, the amplicon reached first
  3. to, the amplicon linked to
  4. differences

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

		fastaFile := checkInputFile(getFlagString(cmd, "fasta-file"), "-f/--fasta-file")
		swarmFile := checkInputFile(getFlagString(cmd, "swarm-file"), "-s/--swarm-file")
		if isStdin(fastaFile) && isStdin(swarmFile) {
			checkError(fmt.Errorf("-f/--fasta-file and -s/--swarm-file can not both be stdin"))
		}
		outFile := getFlagString(cmd, "out-file")
		topn := getFlagNonNegativeInt(cmd, "top-n")

		cfg := getConfig(cmd)
		l := newLinker(cfg)

		store, swarms := loadInput(fastaFile, swarmFile, verbose)
		if topn > 0 && topn < len(swarms) {
			swarms = swarms[:topn]
		}

		outfh, gw, w, err := outStream(outFile, gzippedOutput(outFile), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		ctx := context.Background()
		var nLinks int
		outfh.WriteString("swarm\tfrom\tto\tdifferences\n")
		for _, s := range swarms {
			if s.Size < 2 {
				continue
			}

			members := make([]*amplicon.Amplicon, s.Size)
			for i, m := range s.Members {
				members[i], err = store.Get(m.ID)
				checkError(err)
			}

			links, err := l.Link(ctx, members, cfg.Linker.Differences)
			checkError(err)

			for _, link := range links {
				fmt.Fprintf(outfh, "%s\t%s\t%s\t%d\n", s.Seed, link.From, link.To, link.Distance)
			}
			nLinks += len(links)
		}

		if verbose {
			log.Infof("%s links of %s swarms saved", humanize.Comma(int64(nLinks)), humanize.Comma(int64(len(swarms))))
		}
	},
}

func init() {
	utilsCmd.AddCommand(linksCmd)

	linksCmd.Flags().StringP("fasta-file", "f", "",
		formatFlagUsage(`Amplicons in FASTA format, with headers like ">id_abundance" ("-" for stdin).`))

	linksCmd.Flags().StringP("swarm-file", "s", "",
		formatFlagUsage(`Swarms, one swarm per line, members like "id_abundance" separated by spaces ("-" for stdin).`))

	linksCmd.Flags().IntP("top-n", "n", 0,
		formatFlagUsage(`Only re-cluster the top N heaviest swarms (0 for all).`))

	linksCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))

	addLinkerFlags(linksCmd)

	linksCmd.SetUsageTemplate(usageTemplate("-f <amplicons.fasta> -s <swarms.txt> [-o <links.tsv>]"))
}
