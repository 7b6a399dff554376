package scene

import (
	"encoding/csv"
	"fmt"
	"github.com/kmattheis/scenebridge/cmd/util"
	"github.com/kmattheis/scenebridge/rpc/client"
	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for scene bridge servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNamePrefix = "__perf"
	perfNumThreads = 10
	perfNameSpread = 100
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	SceneCommands.PersistentFlags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. move,info)"))
	key = "threads"
	SceneCommands.PersistentFlags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "objects"
	SceneCommands.PersistentFlags().Int(key, 100, util.WrapString("How many different objects to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNameSpread = viper.GetInt("objects")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for scene bridge servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("staring tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	moveResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("move") {
			return
		}

		// prepare objects
		getName, iter := createObjects("move")

		// cleanup
		b.Cleanup(func() {
			iter(func(n string) {
				if err := sceneClient.DeleteObject(n); err != nil {
					log.Printf("(move) - error deleting object: %v\n", err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				_, err := sceneClient.MoveObject(getName(counter), []float64{float64(counter % 10), 0, 0})
				if err != nil {
					log.Printf("(move) - error moving object: %v\n", err)
				}
				counter++
			}
		})
	})

	results["move"] = moveResult
	printResult("move", moveResult)

	infoResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("info") {
			return
		}

		// prepare objects
		getName, iter := createObjects("info")

		// cleanup
		b.Cleanup(func() {
			iter(func(n string) {
				if err := sceneClient.DeleteObject(n); err != nil {
					log.Printf("(info) - error deleting object: %v\n", err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				_, err := sceneClient.ObjectInfo(getName(counter))
				if err != nil {
					log.Printf("(info) - error reading object info: %v\n", err)
				}
				counter++
			}
		})
	})

	results["info"] = infoResult
	printResult("info", infoResult)

	infoMissingResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("info-missing") {
			return
		}

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				name := fmt.Sprintf("%s/missing-%d", perfNamePrefix, counter%100)
				_, _ = sceneClient.ObjectInfo(name) // not found is the expected answer here
				counter++
			}
		})
	})

	results["info-missing"] = infoMissingResult
	printResult("info-missing", infoMissingResult)

	sceneResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("scene") {
			return
		}

		// prepare objects so the summary has content to report
		_, iter := createObjects("scene")

		// cleanup
		b.Cleanup(func() {
			iter(func(n string) {
				if err := sceneClient.DeleteObject(n); err != nil {
					log.Printf("(scene) - error deleting object: %v\n", err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_, err := sceneClient.SceneInfo()
				if err != nil {
					log.Printf("(scene) - error reading scene info: %v\n", err)
				}
			}
		})
	})

	results["scene"] = sceneResult
	printResult("scene", sceneResult)

	createDeleteResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("create-delete") {
			return
		}

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				// the server may suffix the requested name, delete by the
				// name it actually assigned
				obj, err := sceneClient.CreateObject("CUBE", nil, perfNamePrefix+"-create")
				if err != nil {
					log.Printf("(create-delete) - error creating object: %v\n", err)
					continue
				}
				if err := sceneClient.DeleteObject(obj.Name); err != nil {
					log.Printf("(create-delete) - error deleting object: %v\n", err)
				}
			}
		})
	})

	results["create-delete"] = createDeleteResult
	printResult("create-delete", createDeleteResult)

	mixedUsageResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		// prepare objects
		getName, iter := createObjects("mixed")

		// cleanup
		b.Cleanup(func() {
			iter(func(n string) {
				if err := sceneClient.DeleteObject(n); err != nil {
					log.Printf("(mixed) - error deleting object: %v\n", err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			name := getName(counter)
			for pb.Next() {
				var err error
				switch counter % 4 {
				case 0: // move
					_, err = sceneClient.MoveObject(name, []float64{float64(counter % 10), 0, 0})
				case 1: // info
					_, err = sceneClient.ObjectInfo(name)
				case 2: // scene summary
					_, err = sceneClient.SceneInfo()
				case 3: // create and delete
					var obj *client.ObjectState
					if obj, err = sceneClient.CreateObject("CUBE", nil, perfNamePrefix+"-mixed"); err == nil {
						err = sceneClient.DeleteObject(obj.Name)
					}
				}

				if err != nil {
					log.Printf("(mixed) - error performing operation (%d): %v\n", counter%4, err)
				}
				counter++
			}
		})
	})

	results["mixed"] = mixedUsageResult
	printResult("mixed", mixedUsageResult)

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates the benchmark objects and returns an accessor plus an iterator
// over the names the server actually assigned
func createObjects(prefix string) (func(int) string, func(func(string))) {
	names := make([]string, 0, perfNameSpread)
	for i := 0; i < perfNameSpread; i++ {
		obj, err := sceneClient.CreateObject("CUBE", nil, fmt.Sprintf("%s-%s-%d", perfNamePrefix, prefix, i))
		if err != nil {
			log.Printf("(%s) - error creating object: %v\n", prefix, err)
			continue
		}
		names = append(names, obj.Name)
	}

	// Function to get a name by index (with wraparound)
	getName := func(i int) string {
		return names[i%len(names)]
	}

	// Function to iterate over all names and apply a function to each
	iterateNames := func(fn func(string)) {
		for _, name := range names {
			fn(name)
		}
	}

	return getName, iterateNames
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"Serializer", "Transport",
		"Threads", "Objects Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
			nsPerOp = 0
			opsPerSec = 0
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.ConnectionsPerEndpoint),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfNameSpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
