package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/constants"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <profile.json>",
		Short: "Check a DART profile for errors",
		Long:  "Checks the profile's structure and each of its tag definitions, and prints every problem found.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.loadProfile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			result := profile.Validate()
			tagResult := profile.ValidateTags()
			if result.IsValid() && tagResult.IsValid() {
				fmt.Fprintf(out, "Profile %s is valid.\n", profile.Name)
				return nil
			}
			if !result.IsValid() {
				fmt.Fprintln(out, result.String())
			}
			for _, id := range tagResult.Keys() {
				fmt.Fprintf(out, "tag %s: %s\n", id, tagResult.Errors[id])
			}
			return errInvalidProfile
		},
	}
}

func newRenderCmd(opts *cliOptions) *cobra.Command {
	var valuesFile string
	cmd := &cobra.Command{
		Use:   "render <profile.json> <tag-file-name>",
		Short: "Print a tag file as the profile would write it",
		Long: `Prints the named tag file using the profile's default values.
With --from, values are first read from an existing tag file, so
you can see how a bag's tag file lines up with the profile.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.loadProfile(args[0])
			if err != nil {
				return err
			}
			tagFile := args[1]
			if valuesFile != "" {
				file, err := os.Open(valuesFile)
				if err != nil {
					return err
				}
				defer file.Close()
				tags, err := bagit.ParseTagFileContents(file, tagFile)
				if err != nil {
					return fmt.Errorf("cannot parse %s: %w", valuesFile, err)
				}
				opts.log.Debugf("Read %d tags from %s", len(tags), valuesFile)
				profile.SetTagValues(tags)
			}
			if !profile.HasTagFile(tagFile) {
				return fmt.Errorf("profile %s has no tag file %s", profile.Name, tagFile)
			}
			if !profile.TagFileAllowed(tagFile) {
				opts.log.Warningf("Profile %s does not allow tag file %s", profile.Name, tagFile)
			}
			fmt.Fprintln(cmd.OutOrStdout(), profile.GetTagFileContents(tagFile))
			return nil
		},
	}
	cmd.Flags().StringVar(&valuesFile, "from", "", "Existing tag file to read values from")
	return cmd
}

func newGuessCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "guess <file-or-url>",
		Short: "Identify the format of a profile document",
		Long:  "Prints one of: dart, bagit_profiles, loc_ordered, loc_unordered, unknown.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bagit.GuessProfileType(doc))
			return nil
		},
	}
}

func newImportCmd(opts *cliOptions) *cobra.Command {
	var sourceURL, outFile string
	cmd := &cobra.Command{
		Use:   "import <file-or-url>",
		Short: "Convert a profile document of any known format to a DART profile",
		Long: `Converts the document and prints the DART profile as JSON.
Library of Congress profiles have no name, so the new profile is named
after --source-url, or after the document's URL, or the current time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			doc, err := opts.loadDocument(cmd.Context(), source)
			if err != nil {
				return err
			}
			if sourceURL == "" && strings.Contains(source, "://") {
				sourceURL = source
			}
			opts.log.Debugf("%s looks like a %s profile", source, bagit.GuessProfileType(doc))
			profile, err := bagit.NewConverter().Import(doc, sourceURL)
			if err != nil {
				return err
			}
			if result := profile.Validate(); !result.IsValid() {
				fmt.Fprintln(cmd.ErrOrStderr(), result.String())
				return errInvalidProfile
			}
			data, err := profile.ToJson()
			if err != nil {
				return err
			}
			return writeOutput(cmd, outFile, data)
		},
	}
	cmd.Flags().StringVar(&sourceURL, "source-url", "", "URL to name Library of Congress profiles after")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the profile to this file instead of stdout")
	return cmd
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var format, outFile string
	cmd := &cobra.Command{
		Use:   "export <profile.json>",
		Short: "Convert a DART profile to the bagit-profiles format",
		Long: `Prints the profile in the format described at
https://github.com/bagit-profiles/bagit-profiles-specification.
That format only describes bag-info.txt, so other tag files are
reduced to a list of required files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.loadProfile(args[0])
			if err != nil {
				return err
			}
			std := bagit.NewConverter().ExportToStandard(profile)
			var data string
			switch format {
			case "json":
				data, err = std.ToJson()
			case "yaml":
				data, err = std.ToYaml()
			default:
				return fmt.Errorf("unknown format %q: use json or yaml", format)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, outFile, strings.TrimRight(data, "\n"))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the profile to this file instead of stdout")
	return cmd
}

// domainSettings supplies the institution domain from a flag.
type domainSettings string

func (d domainSettings) Setting(name string) string {
	if name == constants.SettingInstitutionDomain {
		return string(d)
	}
	return ""
}

func newNameCmd(opts *cliOptions) *cobra.Command {
	var check, domain string
	cmd := &cobra.Command{
		Use:   "name <profile.json>",
		Short: "Suggest or check a bag name",
		Long: `Suggests a bag name that follows the profile's naming rules.
With --check, says whether the name (or tar file name) is valid
instead, and exits non-zero if it is not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.loadProfile(args[0])
			if err != nil {
				return err
			}
			namer := bagit.NewNamer(domainSettings(domain))
			out := cmd.OutOrStdout()
			if check == "" {
				name, err := namer.SuggestBagName(profile)
				if err != nil {
					return fmt.Errorf("%w (use --domain)", err)
				}
				fmt.Fprintln(out, name)
				return nil
			}
			if namer.IsValidBagFileName(profile, check) {
				fmt.Fprintf(out, "%s is a valid bag name for %s.\n", check, profile.Name)
				return nil
			}
			fmt.Fprintf(out, "%s is not a valid bag name for %s.\n", check, profile.Name)
			return fmt.Errorf("invalid bag name")
		},
	}
	cmd.Flags().StringVar(&check, "check", "", "Bag name or tar file name to check")
	cmd.Flags().StringVar(&domain, "domain", os.Getenv("INSTITUTION_DOMAIN"), "Institution domain, for profiles whose bag names start with it")
	return cmd
}

func writeOutput(cmd *cobra.Command, outFile, data string) error {
	if outFile == "" {
		fmt.Fprintln(cmd.OutOrStdout(), data)
		return nil
	}
	return os.WriteFile(outFile, []byte(data+"\n"), 0644)
}
