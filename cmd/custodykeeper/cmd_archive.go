package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var archiveOut string

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Upload a sealed copy of every record to object storage",
	Long: `Export every record, seal it with CUSTODYKEEPER_ARCHIVE_KEY and upload it to
the bucket named by CUSTODYKEEPER_ARCHIVE_BUCKET. Only the newest
CUSTODYKEEPER_ARCHIVE_KEEP archives are kept.`,
	RunE: runArchive,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded archives",
	RunE:  runArchiveList,
}

var archiveGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Download and open an archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveGet,
}

func init() {
	archiveGetCmd.Flags().StringVarP(&archiveOut, "out", "o", "", "Output file (- for stdout)")
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveGetCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	c, err := a.client()
	if err != nil {
		return err
	}
	user, _ := a.sess.User()

	arch := a.archiver()
	if !arch.Enabled() {
		return fmt.Errorf("archive storage is not configured")
	}
	bundle, err := c.ExportAll(ctx)
	if err != nil {
		return err
	}
	rec, err := arch.Upload(ctx, user.UserID, bundle)
	if err != nil {
		return err
	}
	removed, err := arch.Cleanup(ctx, user.UserID)
	if err != nil {
		a.logger.Warn("archive cleanup", "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Archived %d bytes as #%d (%s)\n", rec.SizeBytes, rec.ID, rec.ObjectKey)
	if removed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d old archives\n", removed)
	}
	return nil
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	user, ok := a.sess.User()
	if !ok {
		return fmt.Errorf("not signed in, run \"custodykeeper login\" first")
	}

	archives, err := a.archiver().List(user.UserID)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archives")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tSIZE")
	for _, rec := range archives {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", rec.ID, rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Status, rec.SizeBytes)
	}
	return tw.Flush()
}

func runArchiveGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid archive id %q", args[0])
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	user, ok := a.sess.User()
	if !ok {
		return fmt.Errorf("not signed in, run \"custodykeeper login\" first")
	}

	data, err := a.archiver().Fetch(cmd.Context(), user.UserID, id)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), archiveOut, fmt.Sprintf("custodykeeper_archive_%d.json", id), data)
}
