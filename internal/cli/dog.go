package cli

import (
	"context"
	"fmt"
)

func (a *App) listDogs() error {
	dogs := a.tracker.Dogs()
	if len(dogs) == 0 {
		fmt.Fprintln(a.out, "No dogs yet. Use 'adddog' to create one.")
		return nil
	}

	active := a.tracker.Settings().ActiveDogID
	for _, d := range dogs {
		marker := " "
		if d.ID == active {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s  %s", marker, d.ID, d.Name)
		if d.Breed != "" {
			line += "  (" + d.Breed + ")"
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) addDog(ctx context.Context) error {

	name, err := GetSimpleText(a.reader, "Dog name", a.out)
	if err != nil {
		return err
	}
	breed, err := GetSimpleText(a.reader, "Breed (optional)", a.out)
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	dog, err := a.tracker.AddDog(ctx, name, breed, notes, "")
	if err != nil {
		return err
	}

	// first dog becomes active automatically
	if len(a.tracker.Dogs()) == 1 {
		if err := a.tracker.SetActiveDog(ctx, dog.ID); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.out, "Added %s (%s)\n", dog.Name, dog.ID)
	return nil
}

func (a *App) editDog(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: editdog <dog-id>")
		return nil
	}
	dog := a.tracker.DogByID(args[0])
	if dog == nil {
		fmt.Fprintln(a.out, "No such dog:", args[0])
		return nil
	}

	name, err := GetSimpleText(a.reader, fmt.Sprintf("Name [%s]", dog.Name), a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = dog.Name
	}
	breed, err := GetSimpleText(a.reader, fmt.Sprintf("Breed [%s]", dog.Breed), a.out)
	if err != nil {
		return err
	}
	if breed == "" {
		breed = dog.Breed
	}

	if err := a.tracker.UpdateDog(ctx, dog.ID, name, breed, dog.Notes, dog.Photo); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Updated.")
	return nil
}

func (a *App) deleteDog(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: deldog <dog-id>")
		return nil
	}

	confirm, err := GetSimpleText(a.reader, "Delete the dog and all its runs? (y/N)", a.out)
	if err != nil {
		return err
	}
	if confirm != "y" && confirm != "Y" {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.tracker.DeleteDog(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) setActive(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: active <dog-id>")
		return nil
	}
	if err := a.tracker.SetActiveDog(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Active dog: %s\n", a.tracker.ActiveDog().Name)
	return nil
}
