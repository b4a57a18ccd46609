package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	cmdcommon "agora.network/agora/cmd/agora/common"
	"agora.network/agora/lib/common"
	"agora.network/agora/lib/membership"
	"agora.network/agora/lib/storage"
)

var (
	groupCmd *cobra.Command

	flagGroupStorageConfigString string
)

type groupFileMember struct {
	Address string `yaml:"address"`
	Weight  uint64 `yaml:"weight"`
}

type groupFile struct {
	Members []groupFileMember `yaml:"members"`
}

func defaultStorageConfigString(c *cobra.Command) string {
	currentDirectory, err := os.Getwd()
	if err != nil {
		cmdcommon.PrintFlagsError(c, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		cmdcommon.PrintFlagsError(c, "--storage", err)
	}

	return common.GetENVValue("AGORA_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))
}

func init() {
	groupCmd = &cobra.Command{
		Use:   "group <members file>",
		Short: "Seed the group directory from a members file",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			if err := seedGroup(args[0], flagGroupStorageConfigString); err != nil {
				cmdcommon.PrintError(c, err)
			}
		},
	}

	flagGroupStorageConfigString = defaultStorageConfigString(groupCmd)
	groupCmd.Flags().StringVar(&flagGroupStorageConfigString, "storage", flagGroupStorageConfigString, "storage uri")

	rootCmd.AddCommand(groupCmd)
}

func parseGroupFile(b []byte) (members []membership.Member, err error) {
	var gf groupFile
	if err = yaml.Unmarshal(b, &gf); err != nil {
		return
	}
	if len(gf.Members) < 1 {
		err = errors.New("members file has no members")
		return
	}

	for _, gm := range gf.Members {
		member := membership.NewMember(gm.Address, common.Weight(gm.Weight))
		if err = member.Validate(); err != nil {
			return
		}
		members = append(members, member)
	}

	return
}

func seedGroup(path, storageString string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	members, err := parseGroupFile(b)
	if err != nil {
		return err
	}

	storageConfig, err := storage.NewConfigFromString(storageString)
	if err != nil {
		return err
	}

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := membership.SaveMembers(st, members...); err != nil {
		return err
	}

	total, err := membership.GetTotalWeight(st)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "seeded %d members, total weight %d\n", len(members), total)

	return nil
}
