package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var peoplePage int

var peopleCmd = &cobra.Command{
	Use:     "pessoas",
	Aliases: []string{"people"},
	Short:   "People recognized by the backend",
}

var peopleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recognized people",
	RunE: func(cmd *cobra.Command, args []string) error {
		view := application.Views().People
		if err := view.SetPage(cmd.Context(), peoplePage); err != nil {
			return err
		}

		s := view.Snapshot()
		if len(s.Data.People) == 0 {
			fmt.Println("No people found.")
			return nil
		}

		w := newTable("UUID", "TAGS")
		for _, p := range s.Data.People {
			fmt.Fprintf(w, "%s\t%s\n", p.UUID, tags(p.Tags))
		}
		w.Flush()

		pageFooter(s.Page, s.TotalPages, s.Data.Total)
		return nil
	},
}

var peopleShowCmd = &cobra.Command{
	Use:   "show UUID",
	Short: "Show the card of a person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := application.Views().People.Card(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("UUID:          %s\n", card.UUID)
		fmt.Printf("Tags:          %s\n", tags(card.Tags))
		fmt.Printf("Photos:        %d\n", card.PhotoCount)
		fmt.Printf("Primary photo: %s\n", orDash(card.PrimaryPhoto))
		return nil
	},
}

var peopleDeleteCmd = &cobra.Command{
	Use:   "delete UUID",
	Short: "Delete a person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(application.Views().People.DeletePerson(cmd.Context(), args[0]), "Person deleted")
	},
}

var peoplePhotosCmd = &cobra.Command{
	Use:   "photos UUID",
	Short: "List the photos of a person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := application.Views().People.Photos(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%d photo(s)\n", set.Count)
		for i, u := range set.URLs {
			fmt.Printf("%3d  %s\n", i+1, u)
		}
		return nil
	},
}

var peoplePhotoDeleteCmd = &cobra.Command{
	Use:   "photo-delete UUID PHOTO_URL",
	Short: "Delete one photo of a person",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(application.Views().People.DeletePhoto(cmd.Context(), args[0], args[1]), "Photo deleted")
	},
}

var peopleTagAddCmd = &cobra.Command{
	Use:   "tag-add UUID TAG",
	Short: "Add a tag to a person",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(application.Views().People.AddTag(cmd.Context(), args[0], args[1]), "Tag added")
	},
}

var peopleTagRemoveCmd = &cobra.Command{
	Use:   "tag-remove UUID TAG",
	Short: "Remove a tag from a person",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(application.Views().People.RemoveTag(cmd.Context(), args[0], args[1]), "Tag removed")
	},
}

func init() {
	peopleListCmd.Flags().IntVar(&peoplePage, "page", 1, "page number")

	peopleCmd.AddCommand(peopleListCmd, peopleShowCmd, peopleDeleteCmd, peoplePhotosCmd,
		peoplePhotoDeleteCmd, peopleTagAddCmd, peopleTagRemoveCmd)
	rootCmd.AddCommand(peopleCmd)
}
