package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/light-bringer/catalog-listing/internal/app/listing/controller"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
)

const helpText = `commands:
  category <slug>         select a category
  sub <slug>              toggle a subcategory
  brand <id>              toggle a brand
  price <min> <max>       narrow the price range
  rating <0-5>            minimum rating
  stock on|off            in-stock only
  search <text>           search query (empty clears)
  sort <mode>             relevance, price_asc, price_desc, rating_desc, newest
  page <n>                go to page n
  view grid|list          switch layout
  dismiss <n>             remove the n-th active filter
  clear                   clear all filters
  facets                  show categories and brands
  retry                   re-run a failed query
  open|cart|wish <id>     product actions
  quit
`

// session drives one controller from text commands.
type session struct {
	ctrl *controller.Controller
	out  io.Writer
}

func newSession(ctrl *controller.Controller, out io.Writer) *session {
	return &session{ctrl: ctrl, out: out}
}

// exec runs one command line and renders the resulting view. It returns
// true when the user asked to quit.
func (s *session) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var (
		view controller.View
		err  error
	)
	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		_, err = io.WriteString(s.out, helpText)
		return false, err
	case "category":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: category <slug>", errUsage)
		}
		view, err = s.ctrl.SetCategory(ctx, args[0])
	case "sub":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: sub <slug>", errUsage)
		}
		view, err = s.ctrl.ToggleSubcategory(ctx, args[0], !s.ctrl.State().HasSubcategory(args[0]))
	case "brand":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: brand <id>", errUsage)
		}
		view, err = s.ctrl.ToggleBrand(ctx, args[0], !s.ctrl.State().HasBrand(args[0]))
	case "price":
		if len(args) != 2 {
			return false, fmt.Errorf("%w: price <min> <max>", errUsage)
		}
		lo, perr := strconv.ParseFloat(args[0], 64)
		hi, perr2 := strconv.ParseFloat(args[1], 64)
		if perr != nil || perr2 != nil {
			return false, fmt.Errorf("%w: price <min> <max>", errUsage)
		}
		view, err = s.ctrl.SetPriceRange(ctx, lo, hi)
	case "rating":
		n, perr := oneInt(args)
		if perr != nil {
			return false, fmt.Errorf("%w: rating <0-5>", errUsage)
		}
		view, err = s.ctrl.SetMinRating(ctx, n)
	case "stock":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return false, fmt.Errorf("%w: stock on|off", errUsage)
		}
		view, err = s.ctrl.SetInStockOnly(ctx, args[0] == "on")
	case "search":
		view, err = s.ctrl.SetSearchQuery(ctx, strings.Join(args, " "))
	case "sort":
		mode, perr := domain.ParseSortMode(strings.Join(args, ""))
		if perr != nil {
			return false, perr
		}
		view, err = s.ctrl.SetSortMode(ctx, mode)
	case "page":
		n, perr := oneInt(args)
		if perr != nil {
			return false, fmt.Errorf("%w: page <n>", errUsage)
		}
		view, err = s.ctrl.SetPage(ctx, n)
	case "view":
		mode, perr := domain.ParseViewMode(strings.Join(args, ""))
		if perr != nil {
			return false, perr
		}
		view = s.ctrl.SetViewMode(mode)
	case "dismiss":
		n, perr := oneInt(args)
		badges := s.badges()
		if perr != nil || n < 1 || n > len(badges) {
			return false, fmt.Errorf("%w: dismiss <1-%d>", errUsage, len(badges))
		}
		view, err = s.ctrl.Dismiss(ctx, badges[n-1])
	case "clear":
		view, err = s.ctrl.ClearAll(ctx)
	case "retry":
		view, err = s.ctrl.Retry(ctx)
	case "facets":
		s.renderFacets(s.ctrl.View())
		return false, nil
	case "open", "cart", "wish":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: %s <id>", errUsage, cmd)
		}
		return false, s.productAction(cmd, args[0])
	default:
		return false, fmt.Errorf("%w: %q (try help)", errUnknownCommand, cmd)
	}

	s.render(view)
	return false, err
}

func (s *session) productAction(cmd, id string) error {
	switch cmd {
	case "open":
		return s.ctrl.ClickProduct(id)
	case "cart":
		return s.ctrl.AddToCart(id)
	default:
		return s.ctrl.AddToWishlist(id)
	}
}

func (s *session) badges() []domain.Badge {
	if page := s.ctrl.View().Page; page != nil {
		return page.Badges
	}
	return nil
}

func oneInt(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	return strconv.Atoi(args[0])
}

func (s *session) render(v controller.View) {
	switch v.Status {
	case controller.StatusFailed:
		fmt.Fprintf(s.out, "! query failed: %v (type retry)\n", v.Err)
		return
	case controller.StatusReady:
	default:
		fmt.Fprintf(s.out, "(%s)\n", v.Status)
		return
	}

	page := v.Page
	if len(page.Badges) > 0 {
		parts := make([]string, len(page.Badges))
		for i, b := range page.Badges {
			parts[i] = fmt.Sprintf("[%d] %s", i+1, b.Label)
		}
		fmt.Fprintf(s.out, "filters: %s\n", strings.Join(parts, "  "))
	}
	if v.Empty() {
		fmt.Fprintln(s.out, "no products match; type clear to reset filters")
		return
	}

	fmt.Fprintf(s.out, "%d products, page %d/%d, sort %s\n", page.TotalCount, page.Page, page.TotalPages, v.State.SortMode)
	if v.State.ViewMode == domain.ViewList {
		for _, p := range page.Items {
			fmt.Fprintf(s.out, "%s  %s (%s) %s  %.1f★ %d reviews%s\n", p.ID, p.Name, p.Brand, price(p), p.Rating, p.Reviews, stock(p))
			if p.Description != "" {
				fmt.Fprintf(s.out, "    %s\n", p.Description)
			}
		}
		return
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tPRICE\tRATING\tSTOCK")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n", p.ID, p.Name, p.Brand, price(p), p.Rating, strings.TrimSpace(stock(p)))
	}
	_ = tw.Flush()
}

func (s *session) renderFacets(v controller.View) {
	if v.FacetsUnavailable || v.Facets == nil {
		fmt.Fprintln(s.out, "filters unavailable")
		return
	}
	f := v.Facets
	fmt.Fprintf(s.out, "price %.2f - %.2f\n", f.MinPrice, f.MaxPrice)
	var walk func(nodes []domain.Category, depth int)
	walk = func(nodes []domain.Category, depth int) {
		for _, c := range nodes {
			fmt.Fprintf(s.out, "%s%s %s (%d)\n", strings.Repeat("  ", depth), c.Slug, c.Name, c.ProductCount)
			walk(c.Children, depth+1)
		}
	}
	walk(f.Categories, 0)
	for _, b := range f.Brands {
		fmt.Fprintf(s.out, "brand %s %s\n", b.ID, b.Name)
	}
}

func price(p domain.Product) string {
	if p.Discounted() {
		return fmt.Sprintf("%.2f (was %.2f)", p.Price, *p.OriginalPrice)
	}
	return fmt.Sprintf("%.2f", p.Price)
}

func stock(p domain.Product) string {
	if p.InStock {
		return " in stock"
	}
	return " out of stock"
}
