package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/common"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/dupes"
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List MD5 duplicate candidate groups",
	Long: `List every group of files sharing an MD5 fingerprint. Equal MD5 is a
candidate, not proof: run "cataloger verify" on a group to confirm with
SHA256.`,
	Args: cobra.NoArgs,
	RunE: runDuplicates,
}

func init() {
	rootCmd.AddCommand(duplicatesCmd)
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	groups, err := dupes.NewDetector(cat).Candidates(cmd.Context())
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Println("No duplicate candidates found.")
		return nil
	}

	for _, g := range groups {
		verified := ""
		if g.AnyVerified {
			verified = " [has verified member]"
		}
		fmt.Printf("md5=%s  %d copies, %s wasted%s\n",
			g.Fingerprint, g.Count, humanize.IBytes(uint64(g.WastedBytes)), verified)
		for i, p := range g.Paths {
			fmt.Printf("    id=%d  %s\n", g.FileIDs[i], p)
		}
	}
	return nil
}

var verifyCmd = &cobra.Command{
	Use:   "verify <md5> <id=path>...",
	Short: "Confirm a duplicate candidate group with SHA256",
	Long: `Stream-hash the listed files with SHA256, persist each verified hash on
its catalog record, and regroup by the fresh strong hash. Files sharing the
MD5 but not the SHA256 come back in separate singleton groups.

Example:
  cataloger verify 9e107d9d 12=/data/a.iso 31=/backup/a.iso`,
	Args: cobra.MinimumNArgs(2),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// parseVerifyArgs parses the id=path pairs of a verify invocation.
func parseVerifyArgs(args []string) ([]int64, []string, error) {
	var ids []int64
	var paths []string
	for _, arg := range args {
		idStr, path, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q, want id=path", common.ErrInvalidPath, arg)
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: file id %q is not numeric", common.ErrInvalidPath, idStr)
		}
		ids = append(ids, id)
		paths = append(paths, path)
	}
	return ids, paths, nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	fingerprint := args[0]
	ids, paths, err := parseVerifyArgs(args[1:])
	if err != nil {
		return err
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	detector := dupes.NewDetectorWithFS(cat, dupes.OSFilesystem(), settings.HashWorkers)
	result, err := detector.VerifyCandidates(cmd.Context(), fingerprint, ids, paths)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d files: %d verified, %d failed\n",
		result.Total, result.Successful, result.Failed)
	for _, g := range result.VerifiedGroups {
		status := "unique content"
		if g.IsDuplicate {
			status = fmt.Sprintf("CONFIRMED duplicate x%d", g.Count)
		}
		fmt.Printf("sha256=%s  %s\n", g.ContentHash, status)
		for _, f := range g.Files {
			fmt.Printf("    id=%d  %s\n", f.ID, f.Path)
		}
	}
	for _, f := range result.Failures {
		fmt.Printf("failed: id=%d %s: %s\n", f.ID, f.Path, f.Error)
	}
	return nil
}
