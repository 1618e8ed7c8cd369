package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newRestaurantCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurant",
		Short: "Show and edit the restaurant details",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the restaurant details",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := a.api.Restaurant(cmd.Context())
			if err != nil {
				return a.explain(err)
			}
			a.print(formatRestaurant(info), info)
			return nil
		},
	}

	var name, tagline, about, address, phone, email string
	var hours []string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update restaurant details; flags left out keep their current value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			info, err := a.api.AdminRestaurant(cmd.Context())
			if err != nil {
				return a.explain(err)
			}
			flags := cmd.Flags()
			for flag, dst := range map[string]*string{
				"name": &info.Name, "tagline": &info.Tagline, "about": &info.About,
				"address": &info.Address, "phone": &info.Phone, "email": &info.Email,
			} {
				if flags.Changed(flag) {
					value, _ := flags.GetString(flag)
					*dst = value
				}
			}
			if flags.Changed("hours") {
				info.Hours = hours
			}
			updated, err := a.api.UpdateRestaurant(cmd.Context(), *info)
			if err != nil {
				return a.explain(err)
			}
			a.print(formatRestaurant(updated), updated)
			return nil
		},
	}
	set.Flags().StringVar(&name, "name", "", "Restaurant name")
	set.Flags().StringVar(&tagline, "tagline", "", "Tagline under the name")
	set.Flags().StringVar(&about, "about", "", "About text")
	set.Flags().StringVar(&address, "address", "", "Street address")
	set.Flags().StringVar(&phone, "phone", "", "Phone number")
	set.Flags().StringVar(&email, "email", "", "Contact email")
	set.Flags().StringSliceVar(&hours, "hours", nil, "Opening hours, one entry per flag or comma separated")

	cmd.AddCommand(show, set)
	return cmd
}

func newImagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Upload and list images for categories and the hero section",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List uploaded images",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			images, err := a.api.Images(cmd.Context())
			if err != nil {
				return a.explain(err)
			}
			a.print(formatImages(images), images)
			return nil
		},
	}
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			contentType := mime.TypeByExtension(filepath.Ext(args[0]))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			image, err := a.api.UploadImage(cmd.Context(), filepath.Base(args[0]), contentType, f)
			if err != nil {
				return a.explain(err)
			}
			a.print(fmt.Sprintf("uploaded %s -> %s", image.FileName, image.URL), image)
			return nil
		},
	}
	cmd.AddCommand(list, upload)
	return cmd
}
