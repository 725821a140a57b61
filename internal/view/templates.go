package view

const notificationHTML = `<div class="fixed top-4 right-4 z-50 p-4 rounded-lg shadow-lg max-w-sm {{.Classes}}" role="status">
  <div class="flex items-center">
    <i class="fas {{.Icon}} mr-2"></i>
    <span>{{.Message}}</span>
  </div>
</div>`

const tableHTML = `{{if not .Rows}}<tr>
  <td colspan="6" class="px-6 py-8 text-center text-gray-500">
    <i class="fas fa-search text-4xl mb-4"></i>
    <p class="text-lg">No countries found</p>
    <p class="text-sm">Try adjusting your search criteria</p>
  </td>
</tr>{{else}}{{range .Rows}}<tr class="hover:bg-gray-50" data-country-id="{{.ID}}">
  <td class="px-6 py-4 whitespace-nowrap">
    <div class="flex items-center">
      <div class="flex-shrink-0 h-10 w-10">
        <div class="h-10 w-10 rounded-full bg-primary-100 flex items-center justify-center"><i class="fas fa-flag text-primary-600"></i></div>
      </div>
      <div class="ml-4">
        <div class="text-sm font-medium text-gray-900">{{.Name}}</div>
        <div class="text-sm text-gray-500">{{.Language}}</div>
      </div>
    </div>
  </td>
  <td class="px-6 py-4 whitespace-nowrap"><span class="inline-flex px-2 py-1 text-xs font-semibold rounded-full {{.BadgeClass}}">{{.Continent}}</span></td>
  <td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">{{.Capital}}</td>
  <td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">{{.Population}}</td>
  <td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">{{.Area}}</td>
  <td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">{{.Currency}}</td>
</tr>
{{end}}{{end}}`
